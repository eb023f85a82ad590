package engine

import (
	"github.com/mesh-intelligence/datagrid/internal/selection"
	"github.com/mesh-intelligence/datagrid/internal/view"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// Reduce applies a to s and returns the new state. It never mutates s.
// Actions that would violate an invariant, or that target a disabled
// feature or unknown column, return an equivalent state unchanged. After
// every action the selection is pruned to rows that pass the current
// filters and the page index is clamped into range.
func Reduce(m Model, s State, a Action) State {
	next := s.clone()
	f := m.Options.Features
	idx := m.index()

	switch a := a.(type) {
	case SetFilter:
		c, ok := idx[a.Field]
		if !ok || !c.Filterable {
			return s
		}
		if a.Value.IsAll() {
			delete(next.Filters, a.Field)
		} else {
			next.Filters[a.Field] = a.Value
		}
		next.Page.Index = 0
	case ClearFilters:
		next.Filters = map[string]types.FilterValue{}
		next.Page.Index = 0
	case ApplySearch:
		if !f.GlobalSearch || a.Query == s.Search {
			return s
		}
		next.Search = a.Query
		next.Page.Index = 0
	case ToggleSort:
		next.Sort = view.ToggleSort(s.Sort, a.Field, a.Multi, idx, f)
	case ClearSort:
		next.Sort = nil
	case SetPage:
		next.Page.Index = a.Index
	case SetPageSize:
		if a.Size <= 0 {
			return s
		}
		next.Page.Size = a.Size
	case ToggleSelect:
		if !f.Selection || a.ID == "" {
			return s
		}
		next.Selection = s.Selection.Toggle(a.ID)
	case ToggleSelectPage:
		if !f.Selection {
			return s
		}
		ids := pageIDs(m, s)
		next.Selection = s.Selection.ToggleAll(ids, s.Selection.AllSelected(ids))
	case ClearSelection:
		next.Selection = selection.Set{}
	case ToggleColumn:
		if !f.ColumnVisibility {
			return s
		}
		next.Layout, _ = s.Layout.ToggleVisibility(a.Field)
	case MoveColumn:
		if !f.ColumnOrdering {
			return s
		}
		next.Layout, _ = s.Layout.Move(a.Field, a.Direction)
	case SetColumnOrder:
		if !f.ColumnOrdering {
			return s
		}
		next.Layout, _ = s.Layout.SetOrder(a.Order)
	case ResetColumns:
		next.Layout, _ = s.Layout.Reset()
	default:
		return s
	}
	return reconcile(m, next)
}

// Replay folds actions over s in order.
func Replay(m Model, s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(m, s, a)
	}
	return s
}

// reconcile restores the cross-component invariants after a transition or
// a data change.
func reconcile(m Model, s State) State {
	rows := filtered(m, s)
	if s.Selection.Len() > 0 {
		s.Selection = s.Selection.Prune(types.Identities(rows, m.Options.RowID))
	}
	s.Page.Index = view.ClampPage(s.Page.Index, len(rows), pageSize(m, s))
	return s
}

func filtered(m Model, s State) []types.Record {
	return view.Filter(m.Records, m.Columns, s.Filters, s.Search, m.Options.Features)
}

func pageSize(m Model, s State) int {
	if !m.Options.Features.Pagination {
		return 0
	}
	return s.Page.Size
}

func pageIDs(m Model, s State) []string {
	v := ComputeView(m, s)
	return types.Identities(v.Page.Rows, m.Options.RowID)
}
