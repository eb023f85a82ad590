package engine

import "github.com/mesh-intelligence/datagrid/pkg/types"

// Action is one state transition. The set of actions is closed.
type Action interface {
	action()
}

// SetFilter sets or clears (with an "all" value) the filter on Field.
type SetFilter struct {
	Field string
	Value types.FilterValue
}

// ClearFilters removes every column filter.
type ClearFilters struct{}

// ApplySearch sets the global search query. Callers debounce keystrokes
// and dispatch this once typing settles.
type ApplySearch struct {
	Query string
}

// ToggleSort advances the sort state of Field; Multi is shift-click.
type ToggleSort struct {
	Field string
	Multi bool
}

// ClearSort removes every sort key.
type ClearSort struct{}

// SetPage moves to a zero-based page index.
type SetPage struct {
	Index int
}

// SetPageSize changes the page size; non-positive sizes are ignored.
type SetPageSize struct {
	Size int
}

// ToggleSelect flips selection of one record identity.
type ToggleSelect struct {
	ID string
}

// ToggleSelectPage selects every row of the current page, or deselects
// them all when they are already all selected.
type ToggleSelectPage struct{}

// ClearSelection deselects everything.
type ClearSelection struct{}

// ToggleColumn shows or hides a column.
type ToggleColumn struct {
	Field string
}

// MoveColumn swaps a column with its neighbor; Direction is shape.Left or
// shape.Right.
type MoveColumn struct {
	Field     string
	Direction int
}

// SetColumnOrder applies an explicit column order.
type SetColumnOrder struct {
	Order []string
}

// ResetColumns restores declaration order and shows every column.
type ResetColumns struct{}

func (SetFilter) action()        {}
func (ClearFilters) action()     {}
func (ApplySearch) action()      {}
func (ToggleSort) action()       {}
func (ClearSort) action()        {}
func (SetPage) action()          {}
func (SetPageSize) action()      {}
func (ToggleSelect) action()     {}
func (ToggleSelectPage) action() {}
func (ClearSelection) action()   {}
func (ToggleColumn) action()     {}
func (MoveColumn) action()       {}
func (SetColumnOrder) action()   {}
func (ResetColumns) action()     {}
