package view

import (
	"slices"

	"github.com/mesh-intelligence/datagrid/internal/fieldtype"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// Compare orders two records by the sort keys in priority order. The first
// non-zero per-key comparison decides, negated for descending keys. Keys
// naming unknown or unsortable columns are skipped.
func Compare(a, b types.Record, keys []types.SortKey, cols types.ColumnIndex) int {
	for _, k := range keys {
		desc, ok := cols[k.Field]
		if !ok || !desc.Sortable {
			continue
		}
		c := fieldtype.Bind(desc).Compare(a, b)
		if c == 0 {
			continue
		}
		if k.Desc {
			return -c
		}
		return c
	}
	return 0
}

// Sort returns rows stably ordered by keys. Records that tie on every key
// keep their input order.
func Sort(rows []types.Record, keys []types.SortKey, cols types.ColumnIndex) []types.Record {
	out := slices.Clone(rows)
	if len(keys) == 0 {
		return out
	}
	slices.SortStableFunc(out, func(a, b types.Record) int {
		return Compare(a, b, keys, cols)
	})
	return out
}

// ToggleSort advances the sort state for key. Without multi, clicking a
// column that is not sorted replaces the sort with key ascending; clicking
// a sorted column makes it the only key and advances its own direction,
// ascending to descending and then removed. With multi (shift-click), an absent key is appended
// ascending, an ascending key flips to descending in place and a
// descending key is removed. Disabled sorting or an unsortable column
// leaves the state unchanged. The result is always a fresh slice.
func ToggleSort(state []types.SortKey, key string, multi bool, cols types.ColumnIndex, features types.Features) []types.SortKey {
	desc, ok := cols[key]
	if !features.Sorting || !ok || !desc.Sortable {
		return slices.Clone(state)
	}
	if multi && !features.MultiSort {
		multi = false
	}
	i := slices.IndexFunc(state, func(k types.SortKey) bool { return k.Field == key })

	if !multi {
		if i < 0 {
			return []types.SortKey{{Field: key}}
		}
		if !state[i].Desc {
			return []types.SortKey{{Field: key, Desc: true}}
		}
		return []types.SortKey{}
	}

	out := slices.Clone(state)
	switch {
	case i < 0:
		return append(out, types.SortKey{Field: key})
	case !out[i].Desc:
		out[i].Desc = true
		return out
	default:
		return slices.Delete(out, i, i+1)
	}
}

// SanitizeSort drops keys naming unknown or unsortable columns and
// duplicate keys, keeping the first occurrence.
func SanitizeSort(state []types.SortKey, cols types.ColumnIndex) []types.SortKey {
	out := make([]types.SortKey, 0, len(state))
	seen := make(map[string]bool, len(state))
	for _, k := range state {
		desc, ok := cols[k.Field]
		if !ok || !desc.Sortable || seen[k.Field] {
			continue
		}
		seen[k.Field] = true
		out = append(out, k)
	}
	return out
}
