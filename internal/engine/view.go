package engine

import (
	"github.com/mesh-intelligence/datagrid/internal/view"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// View is everything a renderer needs for one frame. It is derived from
// (Model, State) and never stored.
type View struct {
	Columns       []types.ColumnDescriptor // visible, in display order
	Rows          []types.Record           // filtered and sorted
	Page          view.Page
	TotalCount    int
	FilteredCount int
	Selected      []types.Record // in Rows order
	PageSelected  bool           // every row on the current page is selected
}

// ComputeView derives the view of m under s.
func ComputeView(m Model, s State) View {
	idx := m.index()
	rows := view.Sort(filtered(m, s), s.Sort, idx)
	page := view.Paginate(rows, s.Page.Index, pageSize(m, s))

	v := View{
		Rows:          rows,
		Page:          page,
		TotalCount:    len(m.Records),
		FilteredCount: len(rows),
	}
	for _, key := range s.Layout.Visible() {
		if c, ok := idx[key]; ok {
			v.Columns = append(v.Columns, c)
		}
	}
	if s.Selection.Len() > 0 {
		v.Selected = s.Selection.Resolve(rows, m.Options.RowID)
		ids := types.Identities(page.Rows, m.Options.RowID)
		v.PageSelected = len(ids) > 0 && s.Selection.AllSelected(ids)
	}
	return v
}
