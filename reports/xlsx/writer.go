// Package xlsx writes report sheets as Office Open XML workbooks.
package xlsx

import (
	"fmt"
	"io"

	"jibal-shipping/reports"

	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultSheet = "Sheet1"

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

var centered = &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}

func solid(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

var styles = map[reports.Style]*excelize.Style{
	reports.StyleTitle: {
		Font:      &excelize.Font{Bold: true, Size: 18, Color: "1976D2"},
		Alignment: centered,
	},
	reports.StyleDateRange: {
		Font:      &excelize.Font{Size: 12, Color: "333333"},
		Alignment: centered,
	},
	reports.StyleHeader: {
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      solid("2196F3"),
		Border:    thinBorder,
		Alignment: centered,
	},
	reports.StyleDetailsHeader: {
		Font:      &excelize.Font{Bold: true, Color: "B26A00"},
		Fill:      solid("FFE0B2"),
		Border:    thinBorder,
		Alignment: centered,
	},
	reports.StyleCell: {
		Border:    thinBorder,
		Alignment: centered,
	},
	reports.StyleTotalLabel: {
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "B26A00"},
		Fill:      solid("FFE082"),
		Border:    thinBorder,
		Alignment: centered,
	},
	reports.StyleTotalValue: {
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "B26A00"},
		Fill:      solid("FFF8E1"),
		Border:    thinBorder,
		Alignment: centered,
	},
}

// Write renders book to w. A book without sheets still produces a valid file.
func Write(w io.Writer, book *reports.Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	styleIDs := map[reports.Style]int{}
	styleID := func(s reports.Style) (int, error) {
		if id, ok := styleIDs[s]; ok {
			return id, nil
		}
		def, ok := styles[s]
		if !ok {
			return 0, nil
		}
		id, err := f.NewStyle(def)
		if err != nil {
			return 0, err
		}
		styleIDs[s] = id
		return id, nil
	}

	for i, sheet := range book.Sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return err
		}
		if err := writeSheet(f, sheet, styleID); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet.Name, err)
		}
	}
	f.SetActiveSheet(0)

	return f.Write(w)
}

// WriteSheet is Write for a single-sheet workbook.
func WriteSheet(w io.Writer, sheet *reports.Sheet) error {
	return Write(w, &reports.Workbook{Sheets: []*reports.Sheet{sheet}})
}

func writeSheet(f *excelize.File, sheet *reports.Sheet, styleID func(reports.Style) (int, error)) error {
	name := sheet.Name

	if sheet.RightToLeft {
		rtl := true
		if err := f.SetSheetView(name, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
			return err
		}
	}

	for r, row := range sheet.Rows {
		for c, cell := range row {
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			switch cell.Kind {
			case reports.CellText:
				err = f.SetCellStr(name, ref, cell.Text)
			case reports.CellNumber:
				err = f.SetCellValue(name, ref, cell.Number)
			}
			if err != nil {
				return err
			}
			if cell.Style == reports.StyleNone {
				continue
			}
			id, err := styleID(cell.Style)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(name, ref, ref, id); err != nil {
				return err
			}
		}
	}

	for _, m := range sheet.Merges {
		topLeft, err := excelize.CoordinatesToCellName(m.FirstCol+1, m.FirstRow+1)
		if err != nil {
			return err
		}
		bottomRight, err := excelize.CoordinatesToCellName(m.LastCol+1, m.LastRow+1)
		if err != nil {
			return err
		}
		if err := f.MergeCell(name, topLeft, bottomRight); err != nil {
			return err
		}
	}

	for col, width := range sheet.ColumnWidths {
		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, colName, colName, width); err != nil {
			return err
		}
	}
	return nil
}
