// Package gridfile serializes export grids. The spreadsheet encoding is an
// external concern; these writers cover the plain-text formats the CLI
// needs.
package gridfile

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"

	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// Format names a grid encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
	FormatText  Format = "text"
)

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "csv":
		return FormatCSV, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "text", "txt", "table":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown grid format %q", s)
}

// New returns the writer for format over w.
func New(format Format, w io.Writer) (types.GridWriter, error) {
	switch format {
	case FormatCSV:
		return CSV{W: w}, nil
	case FormatJSONL:
		return JSONL{W: w}, nil
	case FormatText:
		return Text{W: w}, nil
	}
	return nil, fmt.Errorf("unknown grid format %q", format)
}

// Create opens path for writing and returns a writer for the format its
// extension names. The caller closes the returned file.
func Create(path string) (types.GridWriter, io.Closer, error) {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	gw, _ := New(format, f)
	return gw, f, nil
}

// CSV writes the header row then every data row.
type CSV struct {
	W io.Writer
}

func (c CSV) WriteGrid(g types.Grid) error {
	w := csv.NewWriter(c.W)
	if err := w.Write(g.Header); err != nil {
		return err
	}
	if err := w.WriteAll(g.Rows); err != nil {
		return err
	}
	return w.Error()
}

// JSONL writes one object per row keyed by header label.
type JSONL struct {
	W io.Writer
}

func (j JSONL) WriteGrid(g types.Grid) error {
	enc := json.NewEncoder(j.W)
	for _, row := range g.Rows {
		obj := make(map[string]string, len(g.Header))
		for i, h := range g.Header {
			if i < len(row) {
				obj[h] = row[i]
			}
		}
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("encoding row: %w", err)
		}
	}
	return nil
}

// Text renders an ASCII table with cells truncated to the grid's width
// hints.
type Text struct {
	W io.Writer
}

func (t Text) WriteGrid(g types.Grid) error {
	table := tablewriter.NewWriter(t.W)
	table.SetHeader(g.Header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, row := range g.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = Truncate(cell, width(g.Widths, i))
		}
		table.Append(cells)
	}
	table.Render()
	return nil
}

// Truncate shortens s to at most w display cells, marking the cut with an
// ellipsis. A non-positive w leaves s alone.
func Truncate(s string, w int) string {
	if w <= 0 || runewidth.StringWidth(s) <= w {
		return s
	}
	return runewidth.Truncate(s, w, "…")
}

func width(widths []int, i int) int {
	if i < len(widths) {
		return widths[i]
	}
	return 0
}
