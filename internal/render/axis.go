package render

import "strconv"

// AxisLabels returns the board's ruler labels. Columns are numbered 1..width
// left to right; rows are numbered height..1 top to bottom, so rows[0] is
// the label of the top row.
func AxisLabels(width, height int) (cols, rows []string) {
	cols = make([]string, width)
	for i := range cols {
		cols[i] = strconv.Itoa(i + 1)
	}
	rows = make([]string, height)
	for i := range rows {
		rows[i] = strconv.Itoa(height - i)
	}
	return cols, rows
}
