// Package records loads and saves record sets and column shapes from disk.
// Records are stored either as a JSON array of objects or as JSONL, one
// object per line; the format follows the file extension.
package records

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/datagrid/internal/jsonl"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// Format names a record file encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
)

// FormatFor picks the format from path's extension. Anything other than
// .jsonl or .ndjson is treated as a JSON array.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	default:
		return FormatJSON
	}
}

// Load reads the records in path.
func Load(path string) ([]types.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := Decode(f, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

// Decode reads records from r. JSONL lines that are malformed or not
// objects are skipped; a JSON document must be an array of objects.
func Decode(r io.Reader, format Format) ([]types.Record, error) {
	if format == FormatJSONL {
		lines, err := jsonl.Decode(r)
		if err != nil {
			return nil, err
		}
		rows := make([]types.Record, 0, len(lines))
		for _, line := range lines {
			var rec types.Record
			if err := json.Unmarshal(line, &rec); err != nil || rec == nil {
				continue
			}
			rows = append(rows, rec)
		}
		return rows, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var rows []types.Record
	if err := json.Unmarshal(bytes.TrimSpace(data), &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidRecords, err)
	}
	for i, rec := range rows {
		if rec == nil {
			return nil, fmt.Errorf("%w: element %d is not an object", types.ErrInvalidRecords, i)
		}
	}
	return rows, nil
}

// Save atomically replaces path with rows in the format its extension
// selects.
func Save(path string, rows []types.Record) error {
	format := FormatFor(path)
	return jsonl.WriteFile(path, func(w *bufio.Writer) error {
		return Encode(w, rows, format)
	})
}

// Encode writes rows to w.
func Encode(w io.Writer, rows []types.Record, format Format) error {
	if format == FormatJSONL {
		enc := json.NewEncoder(w)
		for _, rec := range rows {
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("encoding record: %w", err)
			}
		}
		return nil
	}
	if rows == nil {
		rows = []types.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	return nil
}

// LoadShape reads a column shape from a YAML or JSON file. Field order in
// the file is the natural column order.
func LoadShape(path string) (types.Shape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Shape{}, fmt.Errorf("opening %s: %w", path, err)
	}
	return ParseShape(data)
}

// ParseShape decodes a shape document. JSON is accepted as YAML.
func ParseShape(data []byte) (types.Shape, error) {
	var s types.Shape
	if err := yaml.Unmarshal(data, &s); err != nil {
		return types.Shape{}, fmt.Errorf("parsing shape: %w", err)
	}
	if len(s.Keys()) == 0 {
		return types.Shape{}, fmt.Errorf("%w: no enabled fields", types.ErrInvalidShape)
	}
	return s, nil
}

// InferShape builds a shape from the keys of rows when no shape file is
// given. rowID comes first; other keys follow in the order rows introduce
// them, sorted within each row. Types are guessed from the first value.
func InferShape(rows []types.Record, rowID string) types.Shape {
	seen := map[string]bool{}
	var fields []types.ShapeField
	add := func(key string, ft types.FieldType) {
		if seen[key] {
			return
		}
		seen[key] = true
		fields = append(fields, types.Field(key, &types.ColumnConfig{Type: ft}))
	}
	for _, rec := range rows {
		if _, ok := rec[rowID]; ok {
			add(rowID, inferType(rec[rowID]))
			break
		}
	}
	for _, rec := range rows {
		for _, key := range sortedKeys(rec) {
			add(key, inferType(rec[key]))
		}
	}
	return types.NewShape(fields...)
}
