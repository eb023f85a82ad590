package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/datagrid/internal/records"
	"github.com/mesh-intelligence/datagrid/internal/shape"
	"github.com/mesh-intelligence/datagrid/internal/store"
	"github.com/mesh-intelligence/datagrid/pkg/datagrid"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// tableInput names the files and key a command's table is built from.
type tableInput struct {
	records string
	shape   string
	name    string
	rowID   string
}

func (in *tableInput) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.records, "records", "r", "", "records file (.json array or .jsonl)")
	cmd.Flags().StringVarP(&in.shape, "shape", "s", "", "shape file (.yaml or .json); inferred from records when omitted")
	cmd.Flags().StringVarP(&in.name, "table", "t", "", "table name for persisted state (default: records file name)")
	cmd.Flags().StringVar(&in.rowID, "row-id", "", "identity field (default: config row_id)")
	_ = cmd.MarkFlagRequired("records")
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// tableName derives the state key: --table, else the records file name
// without its extension.
func (in tableInput) tableName() string {
	if in.name != "" {
		return in.name
	}
	base := strings.TrimSuffix(filepath.Base(in.records), filepath.Ext(in.records))
	base = strings.Trim(unsafeName.ReplaceAllString(base, "_"), "_.-")
	if !types.ValidTableName(base) {
		return "default"
	}
	return base
}

// session is an open table plus the resources behind it.
type session struct {
	table *datagrid.Table
	store store.Store
	rows  []types.Record
	input tableInput
}

func (s *session) Close() error {
	return s.store.Close()
}

// open loads records and shape and builds the table with persisted state.
func (a *app) open(in tableInput, extra ...datagrid.Option) (*session, error) {
	opts, err := a.settings.options()
	if err != nil {
		return nil, err
	}
	if in.rowID != "" {
		opts.RowID = in.rowID
	}
	opts.TableName = in.tableName()

	rows, err := records.Load(in.records)
	if err != nil {
		return nil, err
	}
	var sh types.Shape
	if in.shape != "" {
		sh, err = records.LoadShape(in.shape)
		if err != nil {
			return nil, err
		}
	} else {
		sh = records.InferShape(rows, opts.RowID)
	}

	st, err := a.openStore()
	if err != nil {
		return nil, err
	}
	all := append([]datagrid.Option{
		datagrid.WithOptions(opts),
		datagrid.WithStore(st),
		datagrid.WithLogger(a.log.Logger),
	}, extra...)
	tbl, err := datagrid.New(sh, rows, all...)
	if err != nil {
		st.Close()
		return nil, err
	}
	return &session{table: tbl, store: st, rows: rows, input: in}, nil
}

// viewFlags are the state-changing flags shared by view and export.
type viewFlags struct {
	filters      []string
	clearFilters bool
	search       string
	sorts        []string
	page         int
	pageSize     int
	hide         []string
	show         []string
	selects      []string
	selectPage   bool
}

func (f *viewFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringArrayVarP(&f.filters, "filter", "f", nil, "column filter key=value; comma-separate values for multi-choice; value \"all\" clears")
	fs.BoolVar(&f.clearFilters, "clear-filters", false, "remove every column filter first")
	fs.StringVarP(&f.search, "search", "q", "", "global search text (empty clears)")
	fs.StringArrayVar(&f.sorts, "sort", nil, "sort key field[:desc]; repeat for multi-column sort; \"none\" clears")
	fs.IntVarP(&f.page, "page", "p", 0, "page number, starting at 1")
	fs.IntVar(&f.pageSize, "page-size", 0, "rows per page")
	fs.StringArrayVar(&f.hide, "hide", nil, "hide a column")
	fs.StringArrayVar(&f.show, "show", nil, "show a hidden column")
	fs.StringArrayVar(&f.selects, "select", nil, "select a row by identity")
	fs.BoolVar(&f.selectPage, "select-page", false, "select every row on the current page")
}

// actions turns the flags that were set into table actions, in the order
// a user would apply them interactively.
func (f *viewFlags) actions(cmd *cobra.Command, tbl *datagrid.Table) ([]datagrid.Action, error) {
	var out []datagrid.Action
	cols := types.IndexColumns(tbl.Columns())
	layout := tbl.State().Layout

	if f.clearFilters {
		out = append(out, datagrid.ClearFilters{})
	}
	for _, raw := range f.filters {
		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid filter %q (expected key=value)", raw)
		}
		col, known := cols[key]
		if !known {
			return nil, fmt.Errorf("unknown column %q", key)
		}
		fv := types.FilterValue{Value: value}
		if col.Type == types.FieldMultiSelect && value != types.FilterAll {
			fv = types.AnyOf(splitList(value)...)
		}
		out = append(out, datagrid.SetFilter{Field: key, Value: fv})
	}
	if cmd.Flags().Changed("search") {
		out = append(out, datagrid.ApplySearch{Query: f.search})
	}
	if len(f.sorts) > 0 {
		out = append(out, datagrid.ClearSort{})
		for _, raw := range f.sorts {
			if raw == "none" {
				continue
			}
			field, dir, _ := strings.Cut(raw, ":")
			if _, known := cols[field]; !known {
				return nil, fmt.Errorf("unknown column %q", field)
			}
			out = append(out, datagrid.ToggleSort{Field: field, Multi: true})
			switch strings.ToLower(dir) {
			case "", "asc":
			case "desc":
				out = append(out, datagrid.ToggleSort{Field: field, Multi: true})
			default:
				return nil, fmt.Errorf("invalid sort direction %q", dir)
			}
		}
	}
	if f.pageSize != 0 {
		if f.pageSize < 0 {
			return nil, types.ErrInvalidPageSize
		}
		out = append(out, datagrid.SetPageSize{Size: f.pageSize})
	}
	for _, key := range f.hide {
		if layout.IsVisible(key) {
			out = append(out, datagrid.ToggleColumn{Field: key})
		}
	}
	for _, key := range f.show {
		if _, known := cols[key]; known && !layout.IsVisible(key) {
			out = append(out, datagrid.ToggleColumn{Field: key})
		}
	}
	if f.page > 0 {
		out = append(out, datagrid.SetPage{Index: f.page - 1})
	}
	for _, id := range f.selects {
		out = append(out, datagrid.ToggleSelect{ID: id})
	}
	if f.selectPage {
		out = append(out, datagrid.ToggleSelectPage{})
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseValue reads a --set value as JSON when it parses, else as a raw
// string.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

// parseAssignments splits key=value pairs.
func parseAssignments(pairs []string) ([][2]string, error) {
	out := make([][2]string, 0, len(pairs))
	for _, raw := range pairs {
		key, value, ok := strings.Cut(raw, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q (expected key=value)", raw)
		}
		out = append(out, [2]string{key, value})
	}
	return out, nil
}

// parseMove reads "field:left" or "field:right".
func parseMove(raw string) (datagrid.MoveColumn, error) {
	field, dir, ok := strings.Cut(raw, ":")
	if !ok {
		return datagrid.MoveColumn{}, fmt.Errorf("invalid move %q (expected field:left or field:right)", raw)
	}
	switch strings.ToLower(dir) {
	case "left":
		return datagrid.MoveColumn{Field: field, Direction: shape.Left}, nil
	case "right":
		return datagrid.MoveColumn{Field: field, Direction: shape.Right}, nil
	}
	if n, err := strconv.Atoi(dir); err == nil && (n == shape.Left || n == shape.Right) {
		return datagrid.MoveColumn{Field: field, Direction: n}, nil
	}
	return datagrid.MoveColumn{}, fmt.Errorf("invalid move direction %q", dir)
}
