// Package selection tracks selected record identities against the current
// filtered view.
package selection

import (
	"slices"

	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// Set is an immutable set of selected identities. Mutators return a new
// Set; the zero value is empty and ready to use.
type Set struct {
	ids map[string]struct{}
}

// Of returns a set holding ids.
func Of(ids ...string) Set {
	s := Set{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

// Len returns the number of selected identities.
func (s Set) Len() int { return len(s.ids) }

// Has reports whether id is selected.
func (s Set) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs returns the selected identities sorted.
func (s Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Equal reports whether both sets hold the same identities.
func (s Set) Equal(o Set) bool {
	if len(s.ids) != len(o.ids) {
		return false
	}
	for id := range s.ids {
		if !o.Has(id) {
			return false
		}
	}
	return true
}

func (s Set) clone() Set {
	out := Set{ids: make(map[string]struct{}, len(s.ids)+1)}
	for id := range s.ids {
		out.ids[id] = struct{}{}
	}
	return out
}

// Toggle flips membership of id. Blank identities are ignored.
func (s Set) Toggle(id string) Set {
	if id == "" {
		return s
	}
	out := s.clone()
	if s.Has(id) {
		delete(out.ids, id)
	} else {
		out.ids[id] = struct{}{}
	}
	return out
}

// ToggleAll deselects every id on the page when allSelectedOnPage is true
// and selects every one of them otherwise.
func (s Set) ToggleAll(pageIDs []string, allSelectedOnPage bool) Set {
	out := s.clone()
	for _, id := range pageIDs {
		if id == "" {
			continue
		}
		if allSelectedOnPage {
			delete(out.ids, id)
		} else {
			out.ids[id] = struct{}{}
		}
	}
	return out
}

// AllSelected reports whether every id in ids is selected. An empty list
// is never "all selected".
func (s Set) AllSelected(ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// Prune drops identities missing from visible. It never adds any.
func (s Set) Prune(visible []string) Set {
	if len(s.ids) == 0 {
		return s
	}
	keep := make(map[string]struct{}, len(visible))
	for _, id := range visible {
		keep[id] = struct{}{}
	}
	out := Set{ids: make(map[string]struct{}, len(s.ids))}
	for id := range s.ids {
		if _, ok := keep[id]; ok {
			out.ids[id] = struct{}{}
		}
	}
	return out
}

// Resolve returns the selected records found in rows, in row order. rows
// should be the full filtered and sorted set, not a single page.
func (s Set) Resolve(rows []types.Record, rowID string) []types.Record {
	out := make([]types.Record, 0, len(s.ids))
	if len(s.ids) == 0 {
		return out
	}
	for _, r := range rows {
		if id, ok := r.Identity(rowID); ok && s.Has(id) {
			out = append(out, r)
		}
	}
	return out
}
