package shape

import (
	"slices"

	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// Move directions for Layout.Move.
const (
	Left  = -1
	Right = 1
)

// MergeOrder keeps the keys of stored that still exist in current, in their
// stored relative order, then appends keys of current missing from stored
// in declaration order. Duplicates in stored collapse to their first
// occurrence, which makes the merge idempotent.
func MergeOrder(stored, current []string) []string {
	present := make(map[string]bool, len(current))
	for _, k := range current {
		present[k] = true
	}
	out := make([]string, 0, len(current))
	used := make(map[string]bool, len(current))
	for _, k := range stored {
		if present[k] && !used[k] {
			used[k] = true
			out = append(out, k)
		}
	}
	for _, k := range current {
		if !used[k] {
			used[k] = true
			out = append(out, k)
		}
	}
	return out
}

// Layout is the column order and visibility of a table. Layout values are
// immutable: every mutator returns a new Layout and whether anything
// changed. Visibility maps a key to visible; absence means visible.
type Layout struct {
	Order      []string
	Visibility map[string]bool
	natural    []string
}

// NewLayout builds a layout for cols, restoring stored order and
// visibility where they still apply. Columns declared hidden start hidden
// unless stored visibility says otherwise. At least one column is always
// visible.
func NewLayout(cols []types.ColumnDescriptor, storedOrder []string, storedVisibility map[string]bool) Layout {
	natural := types.FieldKeys(cols)
	l := Layout{
		Order:      MergeOrder(storedOrder, natural),
		Visibility: make(map[string]bool),
		natural:    natural,
	}
	for _, c := range cols {
		if v, ok := storedVisibility[c.Field]; ok {
			if !v {
				l.Visibility[c.Field] = false
			}
			continue
		}
		if c.Hidden {
			l.Visibility[c.Field] = false
		}
	}
	if l.VisibleCount() == 0 && len(l.Order) > 0 {
		delete(l.Visibility, l.Order[0])
	}
	return l
}

// IsVisible reports whether key is shown.
func (l Layout) IsVisible(key string) bool {
	v, ok := l.Visibility[key]
	return !ok || v
}

// Visible returns the visible keys in display order.
func (l Layout) Visible() []string {
	out := make([]string, 0, len(l.Order))
	for _, k := range l.Order {
		if l.IsVisible(k) {
			out = append(out, k)
		}
	}
	return out
}

// VisibleCount returns the number of visible columns.
func (l Layout) VisibleCount() int {
	n := 0
	for _, k := range l.Order {
		if l.IsVisible(k) {
			n++
		}
	}
	return n
}

func (l Layout) has(key string) bool {
	return slices.Contains(l.Order, key)
}

func (l Layout) clone() Layout {
	out := Layout{
		Order:      slices.Clone(l.Order),
		Visibility: make(map[string]bool, len(l.Visibility)),
		natural:    l.natural,
	}
	for k, v := range l.Visibility {
		out.Visibility[k] = v
	}
	return out
}

// ToggleVisibility flips the visibility of key. Hiding the last visible
// column and unknown keys are rejected without change.
func (l Layout) ToggleVisibility(key string) (Layout, bool) {
	if !l.has(key) {
		return l, false
	}
	if l.IsVisible(key) && l.VisibleCount() <= 1 {
		return l, false
	}
	out := l.clone()
	if l.IsVisible(key) {
		out.Visibility[key] = false
	} else {
		delete(out.Visibility, key)
	}
	return out, true
}

// Move swaps key with its neighbor in direction dir (Left or Right). Moves
// past either end and unknown keys are no-ops.
func (l Layout) Move(key string, dir int) (Layout, bool) {
	i := slices.Index(l.Order, key)
	if i < 0 || (dir != Left && dir != Right) {
		return l, false
	}
	j := i + dir
	if j < 0 || j >= len(l.Order) {
		return l, false
	}
	out := l.clone()
	out.Order[i], out.Order[j] = out.Order[j], out.Order[i]
	return out, true
}

// SetOrder applies an explicit order such as the result of a drag and drop.
// The result stays a permutation of the current keys.
func (l Layout) SetOrder(order []string) (Layout, bool) {
	merged := MergeOrder(order, l.Order)
	if slices.Equal(merged, l.Order) {
		return l, false
	}
	out := l.clone()
	out.Order = merged
	return out, true
}

// Reset restores declaration order and shows every column.
func (l Layout) Reset() (Layout, bool) {
	natural := l.natural
	if natural == nil {
		natural = l.Order
	}
	if slices.Equal(natural, l.Order) && len(l.Visibility) == 0 {
		return l, false
	}
	return Layout{
		Order:      slices.Clone(natural),
		Visibility: map[string]bool{},
		natural:    natural,
	}, true
}

// Persisted returns the order and visibility for the persistence boundary.
// Only hidden columns are recorded.
func (l Layout) Persisted() ([]string, map[string]bool) {
	vis := make(map[string]bool)
	for k, v := range l.Visibility {
		if !v && l.has(k) {
			vis[k] = false
		}
	}
	if len(vis) == 0 {
		vis = nil
	}
	return slices.Clone(l.Order), vis
}
