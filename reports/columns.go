package reports

// Column is one export column: a header, a width and how to read its cell from a row.
type Column[T any] struct {
	Header string
	Width  float64
	Value  func(row T) Cell
}

// writeTable writes a header row and one row per record starting at row 0.
func writeTable[T any](sheet *Sheet, columns []Column[T], rows []T) {
	for col, c := range columns {
		sheet.Set(0, col, Text(c.Header, StyleHeader))
		if c.Width > 0 {
			sheet.ColumnWidths[col] = c.Width
		}
	}
	for i, row := range rows {
		for col, c := range columns {
			sheet.Set(i+1, col, c.Value(row))
		}
	}
}
