// Package reports lays report data out as sheets of typed cells. It knows nothing about
// file formats; see reports/xlsx for the writer.
package reports

type CellKind int

const (
	CellBlank CellKind = iota
	CellText
	CellNumber
)

// Style names the role of a cell; writers map roles to concrete formatting.
type Style int

const (
	StyleNone Style = iota
	StyleTitle
	StyleDateRange
	StyleHeader
	StyleDetailsHeader
	StyleCell
	StyleTotalLabel
	StyleTotalValue
)

type Cell struct {
	Kind   CellKind
	Text   string
	Number int64
	Style  Style
}

func Text(s string, style Style) Cell {
	return Cell{Kind: CellText, Text: s, Style: style}
}

func Number(n int64, style Style) Cell {
	return Cell{Kind: CellNumber, Number: n, Style: style}
}

func Blank(style Style) Cell {
	return Cell{Kind: CellBlank, Style: style}
}

// Merge is an inclusive, zero-based cell range shown as one cell.
type Merge struct {
	FirstRow, FirstCol int
	LastRow, LastCol   int
}

type Sheet struct {
	Name         string
	RightToLeft  bool
	Rows         [][]Cell
	Merges       []Merge
	ColumnWidths map[int]float64
}

func NewSheet(name string) *Sheet {
	return &Sheet{Name: name, ColumnWidths: map[int]float64{}}
}

// Set stores c at (row, col), growing the grid as needed.
func (s *Sheet) Set(row, col int, c Cell) {
	for len(s.Rows) <= row {
		s.Rows = append(s.Rows, nil)
	}
	for len(s.Rows[row]) <= col {
		s.Rows[row] = append(s.Rows[row], Cell{})
	}
	s.Rows[row][col] = c
}

// Get returns the cell at (row, col), or a zero Cell outside the grid.
func (s *Sheet) Get(row, col int) Cell {
	if row < 0 || row >= len(s.Rows) || col < 0 || col >= len(s.Rows[row]) {
		return Cell{}
	}
	return s.Rows[row][col]
}

// MergeRange writes c to the top-left cell, styles the rest of the range like it and
// records the merge. A single-cell range is a plain Set.
func (s *Sheet) MergeRange(firstRow, firstCol, lastRow, lastCol int, c Cell) {
	for r := firstRow; r <= lastRow; r++ {
		for col := firstCol; col <= lastCol; col++ {
			s.Set(r, col, Blank(c.Style))
		}
	}
	s.Set(firstRow, firstCol, c)
	if firstRow == lastRow && firstCol == lastCol {
		return
	}
	s.Merges = append(s.Merges, Merge{FirstRow: firstRow, FirstCol: firstCol, LastRow: lastRow, LastCol: lastCol})
}

type Workbook struct {
	Sheets []*Sheet
}
