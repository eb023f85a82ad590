package types

// Grid is the rectangular export projection: one header row, data rows of
// formatted cells, and a display width hint per column.
type Grid struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
	Widths []int      `json:"widths"`
}

// GridWriter serializes a Grid to an external format. The spreadsheet
// encoding itself lives behind this interface.
type GridWriter interface {
	WriteGrid(g Grid) error
}

// GridWriterFunc adapts a function to GridWriter.
type GridWriterFunc func(g Grid) error

// WriteGrid calls f(g).
func (f GridWriterFunc) WriteGrid(g Grid) error { return f(g) }
