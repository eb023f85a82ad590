// Package engine ties the table components together: an explicit
// (state, action) -> state reducer, the derived view, and a Table instance
// that owns state, the edit session, callbacks and persistence.
package engine

import (
	"maps"

	"github.com/mesh-intelligence/datagrid/internal/selection"
	"github.com/mesh-intelligence/datagrid/internal/shape"
	"github.com/mesh-intelligence/datagrid/internal/view"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// Model is the read-only input a table computes views from.
type Model struct {
	Columns []types.ColumnDescriptor
	Records []types.Record
	Options types.Options
}

// NewModel resolves shape into columns and fills option defaults.
func NewModel(s types.Shape, records []types.Record, opts types.Options) Model {
	opts = opts.WithDefaults()
	return Model{
		Columns: shape.Resolve(s, opts.Features),
		Records: records,
		Options: opts,
	}
}

func (m Model) index() types.ColumnIndex {
	return types.IndexColumns(m.Columns)
}

// State is the complete interactive state of one table.
type State struct {
	Layout    shape.Layout
	Filters   map[string]types.FilterValue
	Search    string
	Sort      []types.SortKey
	Page      types.Pagination
	Selection selection.Set
}

// Initial builds the starting state for m, migrating a previously persisted
// state onto the current shape: unknown columns, unfilterable filters and
// unsortable sort keys are dropped, new columns are appended, and the page
// index is clamped.
func Initial(m Model, persisted *types.PersistedState) State {
	var p types.PersistedState
	if persisted != nil {
		p = persisted.Clone()
	}
	s := State{
		Layout:  shape.NewLayout(m.Columns, p.ColumnOrder, p.Visibility),
		Filters: map[string]types.FilterValue{},
		Search:  p.Search,
		Sort:    view.SanitizeSort(p.Sort, m.index()),
		Page:    p.Pagination,
	}
	idx := m.index()
	for k, f := range p.Filters {
		if c, ok := idx[k]; ok && c.Filterable && !f.IsAll() {
			s.Filters[k] = f
		}
	}
	if s.Page.Size <= 0 {
		s.Page.Size = m.Options.PageSize
	}
	return reconcile(m, s)
}

// Persisted extracts the part of s that crosses the persistence boundary.
func (s State) Persisted() types.PersistedState {
	order, vis := s.Layout.Persisted()
	p := types.PersistedState{
		ColumnOrder: order,
		Visibility:  vis,
		Search:      s.Search,
		Sort:        append([]types.SortKey(nil), s.Sort...),
		Pagination:  s.Page,
	}
	if len(s.Filters) > 0 {
		p.Filters = maps.Clone(s.Filters)
	}
	return p
}

func (s State) clone() State {
	out := s
	out.Filters = maps.Clone(s.Filters)
	if out.Filters == nil {
		out.Filters = map[string]types.FilterValue{}
	}
	out.Sort = append([]types.SortKey(nil), s.Sort...)
	return out
}
