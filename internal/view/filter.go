// Package view computes the filtered, searched, sorted and paginated
// projection of a record set. Every function is pure: inputs are never
// modified and results are fresh slices.
package view

import (
	"strings"

	"github.com/mesh-intelligence/datagrid/internal/fieldtype"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// MatchesColumnFilter reports whether rec satisfies the filter on one
// column. Columns that are not filterable match vacuously, as does an
// "all" filter.
func MatchesColumnFilter(rec types.Record, f types.FilterValue, col types.ColumnDescriptor) bool {
	if !col.Filterable || f.IsAll() {
		return true
	}
	return fieldtype.Bind(col).Match(rec, f)
}

// MatchesGlobalSearch reports whether any searchable column of rec contains
// query, ignoring case. When global search is disabled every record
// matches; a blank query matches everything too.
func MatchesGlobalSearch(rec types.Record, query string, cols []types.ColumnDescriptor, enabled bool) bool {
	if !enabled {
		return true
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, c := range cols {
		if !c.Searchable {
			continue
		}
		if strings.Contains(strings.ToLower(fieldtype.Bind(c).Search(rec)), q) {
			return true
		}
	}
	return false
}

// Predicate composes every active column filter with the global search
// into a single record predicate. Filters on keys outside cols are ignored.
func Predicate(cols []types.ColumnDescriptor, filters map[string]types.FilterValue, query string, features types.Features) func(types.Record) bool {
	type active struct {
		col    fieldtype.Column
		filter types.FilterValue
	}
	var checks []active
	if features.Filtering {
		for _, c := range cols {
			f, ok := filters[c.Field]
			if !ok || f.IsAll() || !c.Filterable {
				continue
			}
			checks = append(checks, active{col: fieldtype.Bind(c), filter: f})
		}
	}
	return func(rec types.Record) bool {
		for _, a := range checks {
			if !a.col.Match(rec, a.filter) {
				return false
			}
		}
		return MatchesGlobalSearch(rec, query, cols, features.GlobalSearch)
	}
}

// Filter returns the records of rows accepted by the composed predicate,
// preserving their order.
func Filter(rows []types.Record, cols []types.ColumnDescriptor, filters map[string]types.FilterValue, query string, features types.Features) []types.Record {
	keep := Predicate(cols, filters, query, features)
	out := make([]types.Record, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
