package types

import (
	"slices"
	"strings"
)

// FilterAll is the sentinel filter value meaning "no constraint".
const FilterAll = "all"

// FilterValue is a column filter. Value carries a scalar filter (substring,
// exact choice or "true"/"false"); Values carries an any-of set for choice
// columns. The zero value, and Value == FilterAll, impose no constraint.
type FilterValue struct {
	Value  string   `json:"value,omitempty" yaml:"value,omitempty"`
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`
}

// Text returns a scalar filter value.
func Text(v string) FilterValue { return FilterValue{Value: v} }

// AnyOf returns a set filter value.
func AnyOf(vals ...string) FilterValue { return FilterValue{Values: vals} }

// IsAll reports whether the filter imposes no constraint.
func (f FilterValue) IsAll() bool {
	if len(f.Values) > 0 {
		return false
	}
	v := strings.TrimSpace(f.Value)
	return v == "" || strings.EqualFold(v, FilterAll)
}

// Set returns the filter as a set of wanted values: Values when present,
// otherwise the single scalar Value.
func (f FilterValue) Set() []string {
	if len(f.Values) > 0 {
		return f.Values
	}
	if f.IsAll() {
		return nil
	}
	return []string{f.Value}
}

// Equal reports whether two filter values are identical.
func (f FilterValue) Equal(o FilterValue) bool {
	return f.Value == o.Value && slices.Equal(f.Values, o.Values)
}

// SortKey is one entry of the sort state; earlier keys have priority.
type SortKey struct {
	Field string `json:"field" yaml:"field"`
	Desc  bool   `json:"desc,omitempty" yaml:"desc,omitempty"`
}

// Pagination is the zero-based page index and the page size.
type Pagination struct {
	Index int `json:"index" yaml:"index"`
	Size  int `json:"size" yaml:"size"`
}

// PersistedState is the part of table state that crosses the persistence
// boundary. Visibility maps field key to visible; absence means visible.
type PersistedState struct {
	ColumnOrder []string               `json:"column_order,omitempty"`
	Visibility  map[string]bool        `json:"visibility,omitempty"`
	Filters     map[string]FilterValue `json:"filters,omitempty"`
	Search      string                 `json:"search,omitempty"`
	Sort        []SortKey              `json:"sort,omitempty"`
	Pagination  Pagination             `json:"pagination"`
}

// Clone returns a deep copy of the state.
func (p PersistedState) Clone() PersistedState {
	out := PersistedState{
		ColumnOrder: slices.Clone(p.ColumnOrder),
		Search:      p.Search,
		Sort:        slices.Clone(p.Sort),
		Pagination:  p.Pagination,
	}
	if p.Visibility != nil {
		out.Visibility = make(map[string]bool, len(p.Visibility))
		for k, v := range p.Visibility {
			out.Visibility[k] = v
		}
	}
	if p.Filters != nil {
		out.Filters = make(map[string]FilterValue, len(p.Filters))
		for k, v := range p.Filters {
			out.Filters[k] = FilterValue{Value: v.Value, Values: slices.Clone(v.Values)}
		}
	}
	return out
}

// Equal reports whether two persisted states describe the same table state.
// Nil and empty collections compare equal.
func (p PersistedState) Equal(o PersistedState) bool {
	if p.Search != o.Search || p.Pagination != o.Pagination {
		return false
	}
	if !slices.Equal(p.ColumnOrder, o.ColumnOrder) || !slices.Equal(p.Sort, o.Sort) {
		return false
	}
	if len(p.Visibility) != len(o.Visibility) || len(p.Filters) != len(o.Filters) {
		return false
	}
	for k, v := range p.Visibility {
		if ov, ok := o.Visibility[k]; !ok || ov != v {
			return false
		}
	}
	for k, v := range p.Filters {
		if ov, ok := o.Filters[k]; !ok || !ov.Equal(v) {
			return false
		}
	}
	return true
}
