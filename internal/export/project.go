// Package export projects the current table view into a rectangular grid
// of formatted cells for an external spreadsheet writer.
package export

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/mesh-intelligence/datagrid/internal/fieldtype"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// Width hint bounds, in display cells.
const (
	MinWidth = 8
	MaxWidth = 60
)

// Request is everything Project reads. Rows is the full filtered and
// sorted set; Selected, when non-empty, replaces it as the row source.
type Request struct {
	Rows       []types.Record
	Columns    []types.ColumnDescriptor
	Order      []string
	Visibility map[string]bool
	Selected   []types.Record
	Format     fieldtype.Format
}

// Project builds the export grid. Columns follow Order restricted to
// visible, known columns; the header row holds their labels. It fails with
// ErrNoVisibleColumns or ErrNoExportRows instead of producing an empty
// grid.
func Project(req Request) (types.Grid, error) {
	idx := types.IndexColumns(req.Columns)
	var cols []fieldtype.Column
	for _, key := range req.Order {
		desc, ok := idx[key]
		if !ok {
			continue
		}
		if v, set := req.Visibility[key]; set && !v {
			continue
		}
		cols = append(cols, fieldtype.Bind(desc))
	}
	if len(cols) == 0 {
		return types.Grid{}, types.ErrNoVisibleColumns
	}

	source := req.Rows
	if len(req.Selected) > 0 {
		source = req.Selected
	}
	if len(source) == 0 {
		return types.Grid{}, types.ErrNoExportRows
	}

	g := types.Grid{
		Header: make([]string, len(cols)),
		Rows:   make([][]string, 0, len(source)),
		Widths: make([]int, len(cols)),
	}
	for i, c := range cols {
		g.Header[i] = c.Desc.Label
		g.Widths[i] = runewidth.StringWidth(c.Desc.Label)
	}
	for _, rec := range source {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = c.Export(rec, req.Format)
			if w := runewidth.StringWidth(row[i]); w > g.Widths[i] {
				g.Widths[i] = w
			}
		}
		g.Rows = append(g.Rows, row)
	}
	for i, c := range cols {
		if c.Desc.Width > 0 {
			g.Widths[i] = c.Desc.Width
		}
		g.Widths[i] = max(MinWidth, min(MaxWidth, g.Widths[i]))
	}
	return g, nil
}

// Write projects req and hands the grid to w.
func Write(w types.GridWriter, req Request) (types.Grid, error) {
	g, err := Project(req)
	if err != nil {
		return g, err
	}
	if err := w.WriteGrid(g); err != nil {
		return g, fmt.Errorf("write grid: %w", err)
	}
	return g, nil
}
