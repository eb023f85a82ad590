package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/datagrid/internal/shape"
	"github.com/mesh-intelligence/datagrid/internal/store"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

func peopleShape() types.Shape {
	return types.NewShape(
		types.ShapeField{Key: "id", Config: &types.ColumnConfig{Type: types.FieldNumber, Editable: types.Bool(false)}},
		types.ShapeField{Key: "name", Config: &types.ColumnConfig{Type: types.FieldText}},
		types.ShapeField{Key: "active", Config: &types.ColumnConfig{Type: types.FieldBoolean}},
		types.ShapeField{Key: "team", Config: &types.ColumnConfig{Type: types.FieldSelect, Options: []string{"red", "blue"}}},
	)
}

func people(n int) []types.Record {
	rows := make([]types.Record, n)
	for i := range rows {
		team := "red"
		if i%2 == 1 {
			team = "blue"
		}
		rows[i] = types.Record{"id": i + 1, "name": fmt.Sprintf("person %03d", i+1), "active": i%3 != 0, "team": team}
	}
	return rows
}

func model(n int) Model {
	return NewModel(peopleShape(), people(n), types.DefaultOptions())
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	m := model(30)
	s := Initial(m, nil)
	next := Reduce(m, s, SetFilter{Field: "team", Value: types.FilterValue{Value: "red"}})

	assert.Empty(t, s.Filters)
	assert.Len(t, next.Filters, 1)
}

func TestReduce(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		actions []Action
		check   func(t *testing.T, m Model, s State)
	}{
		{
			name: "filter prunes selection to matching rows",
			rows: 10,
			actions: []Action{
				ToggleSelect{ID: "1"},
				ToggleSelect{ID: "2"},
				SetFilter{Field: "team", Value: types.FilterValue{Value: "red"}},
			},
			check: func(t *testing.T, m Model, s State) {
				assert.Equal(t, []string{"1"}, s.Selection.IDs())
			},
		},
		{
			name: "clearing a filter does not restore pruned selection",
			rows: 10,
			actions: []Action{
				ToggleSelect{ID: "2"},
				SetFilter{Field: "team", Value: types.FilterValue{Value: "red"}},
				SetFilter{Field: "team", Value: types.FilterValue{Value: types.FilterAll}},
			},
			check: func(t *testing.T, m Model, s State) {
				assert.Empty(t, s.Filters)
				assert.Equal(t, 0, s.Selection.Len())
			},
		},
		{
			name: "sort keeps selection",
			rows: 10,
			actions: []Action{
				ToggleSelect{ID: "4"},
				ToggleSort{Field: "name"},
				ToggleSort{Field: "name"},
			},
			check: func(t *testing.T, m Model, s State) {
				assert.Equal(t, []types.SortKey{{Field: "name", Desc: true}}, s.Sort)
				assert.Equal(t, []string{"4"}, s.Selection.IDs())
			},
		},
		{
			name: "page size change clamps index",
			rows: 150,
			actions: []Action{
				SetPageSize{Size: 25},
				SetPage{Index: 5},
				SetPageSize{Size: 50},
			},
			check: func(t *testing.T, m Model, s State) {
				assert.Equal(t, 50, s.Page.Size)
				assert.Equal(t, 2, s.Page.Index)
				v := ComputeView(m, s)
				assert.Equal(t, 3, v.Page.Count)
				assert.Len(t, v.Page.Rows, 50)
			},
		},
		{
			name:    "non-positive page size is ignored",
			rows:    5,
			actions: []Action{SetPageSize{Size: 0}},
			check: func(t *testing.T, m Model, s State) {
				assert.Equal(t, types.DefaultPageSize, s.Page.Size)
			},
		},
		{
			name: "filter resets page index",
			rows: 50,
			actions: []Action{
				SetPage{Index: 3},
				SetFilter{Field: "name", Value: types.FilterValue{Value: "person"}},
			},
			check: func(t *testing.T, m Model, s State) {
				assert.Equal(t, 0, s.Page.Index)
			},
		},
		{
			name: "select page toggles current page only",
			rows: 25,
			actions: []Action{
				SetPage{Index: 1},
				ToggleSelectPage{},
			},
			check: func(t *testing.T, m Model, s State) {
				assert.Equal(t, 10, s.Selection.Len())
				assert.True(t, s.Selection.Has("11"))
				assert.False(t, s.Selection.Has("1"))
				assert.True(t, ComputeView(m, s).PageSelected)
			},
		},
		{
			name: "select page twice deselects",
			rows: 25,
			actions: []Action{
				ToggleSelectPage{},
				ToggleSelectPage{},
			},
			check: func(t *testing.T, m Model, s State) {
				assert.Equal(t, 0, s.Selection.Len())
			},
		},
		{
			name: "last visible column cannot be hidden",
			rows: 3,
			actions: []Action{
				ToggleColumn{Field: "id"},
				ToggleColumn{Field: "name"},
				ToggleColumn{Field: "active"},
				ToggleColumn{Field: "team"},
			},
			check: func(t *testing.T, m Model, s State) {
				assert.Equal(t, []string{"team"}, s.Layout.Visible())
			},
		},
		{
			name: "move and reset columns",
			rows: 3,
			actions: []Action{
				MoveColumn{Field: "team", Direction: shape.Left},
				MoveColumn{Field: "id", Direction: shape.Left},
			},
			check: func(t *testing.T, m Model, s State) {
				assert.Equal(t, []string{"id", "name", "team", "active"}, s.Layout.Order)
				s = Reduce(m, s, ResetColumns{})
				assert.Equal(t, []string{"id", "name", "active", "team"}, s.Layout.Order)
			},
		},
		{
			name: "search narrows rows",
			rows: 20,
			actions: []Action{
				ApplySearch{Query: "person 01"},
			},
			check: func(t *testing.T, m Model, s State) {
				v := ComputeView(m, s)
				assert.Equal(t, 10, v.FilteredCount)
				assert.Equal(t, 20, v.TotalCount)
			},
		},
		{
			name: "unknown column filter is ignored",
			rows: 5,
			actions: []Action{
				SetFilter{Field: "salary", Value: types.FilterValue{Value: "1"}},
			},
			check: func(t *testing.T, m Model, s State) {
				assert.Empty(t, s.Filters)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := model(tt.rows)
			s := Replay(m, Initial(m, nil), tt.actions...)
			tt.check(t, m, s)
		})
	}
}

func TestReduceRespectsDisabledFeatures(t *testing.T) {
	opts := types.DefaultOptions()
	opts.Features.Selection = false
	opts.Features.ColumnOrdering = false
	opts.Features.GlobalSearch = false
	m := NewModel(peopleShape(), people(5), opts)

	s := Replay(m, Initial(m, nil),
		ToggleSelect{ID: "1"},
		MoveColumn{Field: "team", Direction: shape.Left},
		ApplySearch{Query: "zzz"},
	)
	assert.Equal(t, 0, s.Selection.Len())
	assert.Equal(t, []string{"id", "name", "active", "team"}, s.Layout.Order)
	assert.Equal(t, 5, ComputeView(m, s).FilteredCount)
}

func TestInitialMigratesPersistedState(t *testing.T) {
	m := model(40)
	persisted := &types.PersistedState{
		ColumnOrder: []string{"team", "salary", "name"},
		Visibility:  map[string]bool{"active": false, "salary": false},
		Filters: map[string]types.FilterValue{
			"salary": {Value: "1"},
			"team":   {Value: "blue"},
		},
		Sort:       []types.SortKey{{Field: "salary"}, {Field: "name", Desc: true}},
		Pagination: types.Pagination{Index: 9, Size: 5},
	}

	s := Initial(m, persisted)
	assert.Equal(t, []string{"team", "name", "id", "active"}, s.Layout.Order)
	assert.Equal(t, []string{"team", "name", "id"}, s.Layout.Visible())
	assert.Equal(t, map[string]types.FilterValue{"team": {Value: "blue"}}, s.Filters)
	assert.Equal(t, []types.SortKey{{Field: "name", Desc: true}}, s.Sort)
	assert.Equal(t, 3, s.Page.Index, "20 blue rows at size 5 have 4 pages")
	assert.Equal(t, "salary", persisted.ColumnOrder[1], "input must not be modified")
}

func TestComputeViewSelectionFollowsSortOrder(t *testing.T) {
	m := model(10)
	s := Replay(m, Initial(m, nil),
		ToggleSelect{ID: "2"},
		ToggleSelect{ID: "9"},
		ToggleSort{Field: "id"},
		ToggleSort{Field: "id"},
	)
	v := ComputeView(m, s)
	require.Len(t, v.Selected, 2)
	assert.Equal(t, 9, v.Selected[0]["id"])
	assert.Equal(t, 2, v.Selected[1]["id"])
	assert.Equal(t, []string{"id", "name", "active", "team"}, types.FieldKeys(v.Columns))
}

func newTable(t *testing.T, cfg Config) *Table {
	t.Helper()
	if cfg.Shape.Fields == nil {
		cfg.Shape = peopleShape()
	}
	if cfg.Options.RowID == "" {
		cfg.Options = types.DefaultOptions()
	}
	tbl, err := New(cfg)
	require.NoError(t, err)
	return tbl
}

func TestTablePersistsStateChanges(t *testing.T) {
	st := store.NewMemory()
	var events []types.PersistedState
	opts := types.DefaultOptions()
	opts.TableName = "people"

	tbl := newTable(t, Config{
		Records:       people(30),
		Options:       opts,
		Store:         st,
		OnStateChange: func(p types.PersistedState) { events = append(events, p) },
	})
	tbl.Dispatch(ToggleSort{Field: "name"})
	tbl.Dispatch(ToggleSelect{ID: "3"})

	require.Len(t, events, 1, "selection is not persisted")
	saved, ok, err := st.Load("people")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []types.SortKey{{Field: "name"}}, saved.Sort)

	again := newTable(t, Config{Records: people(30), Options: opts, Store: st})
	assert.Equal(t, []types.SortKey{{Field: "name"}}, again.State().Sort)
}

func TestTableSelectionCallback(t *testing.T) {
	var got [][]types.Record
	tbl := newTable(t, Config{
		Records:           people(10),
		OnSelectionChange: func(rows []types.Record) { got = append(got, rows) },
	})

	tbl.Dispatch(ToggleSelect{ID: "1"})
	tbl.Dispatch(ToggleSort{Field: "name"})
	tbl.Dispatch(SetFilter{Field: "team", Value: types.FilterValue{Value: "blue"}})

	require.Len(t, got, 2)
	assert.Len(t, got[0], 1)
	assert.Empty(t, got[1])
}

func TestTableSelectionCallbackIgnoresReordering(t *testing.T) {
	var got [][]types.Record
	tbl := newTable(t, Config{
		Records:           people(10),
		OnSelectionChange: func(rows []types.Record) { got = append(got, rows) },
	})

	tbl.Dispatch(ToggleSelect{ID: "1"}, ToggleSelect{ID: "2"})
	require.Len(t, got, 1)

	tbl.Dispatch(ToggleSort{Field: "name"})
	tbl.Dispatch(ToggleSort{Field: "name"})
	assert.Equal(t, []string{"2", "1"}, types.Identities(tbl.View().Selected, "id"))
	assert.Len(t, got, 1, "sorting the same selection is not a selection change")

	tbl.Dispatch(ToggleSelect{ID: "2"})
	require.Len(t, got, 2)
	assert.Equal(t, []string{"1"}, types.Identities(got[1], "id"))
}

func TestTableEdit(t *testing.T) {
	var saved []types.Record
	tbl := newTable(t, Config{
		Records: people(5),
		OnRowSave: func(r types.Record) error {
			saved = append(saved, r)
			return nil
		},
	})

	_, ok := tbl.BeginEdit("2")
	require.True(t, ok)
	_, ok = tbl.BeginEdit("3")
	assert.False(t, ok, "second edit is ignored")

	res, err := tbl.SaveEdit()
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Empty(t, saved)

	_, ok = tbl.BeginEdit("3")
	require.True(t, ok)
	assert.False(t, tbl.SetField("id", 99), "identity column is read-only")
	assert.True(t, tbl.SetField("name", "renamed"))
	res, err = tbl.SaveEdit()
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{"name"}, res.Fields)
	require.Len(t, saved, 1)
	assert.Equal(t, "renamed", tbl.Records()[2]["name"])
	assert.Equal(t, "person 004", tbl.Records()[3]["name"])
	assert.Nil(t, tbl.Draft())
}

func TestTableEditSaveFailureKeepsDraft(t *testing.T) {
	boom := errors.New("boom")
	tbl := newTable(t, Config{
		Records:   people(3),
		OnRowSave: func(types.Record) error { return boom },
	})
	_, ok := tbl.BeginEdit("1")
	require.True(t, ok)
	tbl.SetField("name", "x")

	_, err := tbl.SaveEdit()
	require.ErrorIs(t, err, boom)
	assert.NotNil(t, tbl.Draft())
	assert.Equal(t, "person 001", tbl.Records()[0]["name"])

	tbl.CancelEdit()
	assert.Nil(t, tbl.Draft())
	_, err = tbl.SaveEdit()
	assert.ErrorIs(t, err, types.ErrNoActiveEdit)
}

func TestTableExport(t *testing.T) {
	var written types.Grid
	w := types.GridWriterFunc(func(g types.Grid) error {
		written = g
		return nil
	})
	tbl := newTable(t, Config{Records: people(12)})

	tbl.Dispatch(
		ToggleColumn{Field: "active"},
		SetFilter{Field: "team", Value: types.FilterValue{Value: "red"}},
	)
	g, err := tbl.Export(w)
	require.NoError(t, err)
	assert.Equal(t, written, g)
	assert.Equal(t, []string{"Id", "Name", "Team"}, g.Header)
	assert.Len(t, g.Rows, 6, "export ignores pagination")

	tbl.Dispatch(ToggleSelect{ID: "5"})
	g, err = tbl.Export(w)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"5", "person 005", "red"}}, g.Rows)

	tbl.Dispatch(ClearSelection{}, SetFilter{Field: "name", Value: types.FilterValue{Value: "nobody"}})
	_, err = tbl.Export(w)
	assert.ErrorIs(t, err, types.ErrNoExportRows)
}

func TestTableExportDisabled(t *testing.T) {
	opts := types.DefaultOptions()
	opts.Features.Export = false
	tbl := newTable(t, Config{Records: people(2), Options: opts})
	_, err := tbl.Export(types.GridWriterFunc(func(types.Grid) error { return nil }))
	assert.ErrorIs(t, err, types.ErrExportDisabled)
}

func TestTableSetShapeMigratesState(t *testing.T) {
	tbl := newTable(t, Config{Records: people(6)})
	tbl.Dispatch(ToggleSort{Field: "team"}, ToggleSelect{ID: "2"})

	tbl.SetShape(types.NewShape(
		types.ShapeField{Key: "id", Config: &types.ColumnConfig{Type: types.FieldNumber}},
		types.ShapeField{Key: "name", Config: &types.ColumnConfig{}},
	))
	assert.Empty(t, tbl.State().Sort)
	assert.Equal(t, []string{"id", "name"}, tbl.State().Layout.Order)
	assert.True(t, tbl.State().Selection.Has("2"))
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	opts := types.DefaultOptions()
	opts.TableName = "../etc"
	_, err := New(Config{Shape: peopleShape(), Options: opts})
	assert.ErrorIs(t, err, types.ErrInvalidTableName)
}
