package view

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/datagrid/internal/shape"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

func peopleColumns(features types.Features) []types.ColumnDescriptor {
	return shape.Resolve(types.NewShape(
		types.Field("name", &types.ColumnConfig{Type: types.FieldText}),
		types.Field("active", &types.ColumnConfig{Type: types.FieldBoolean}),
		types.Field("skills", &types.ColumnConfig{Type: types.FieldMultiSelect}),
		types.Field("age", &types.ColumnConfig{Type: types.FieldNumber}),
		types.Field("team", &types.ColumnConfig{Type: types.FieldSelect, Searchable: types.Bool(false)}),
	), features)
}

func ids(rows []types.Record) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r["id"]
	}
	return out
}

func TestFilterBooleanScenario(t *testing.T) {
	cols := peopleColumns(types.AllFeatures())
	rows := []types.Record{
		{"id": 1, "name": "A", "active": true},
		{"id": 2, "name": "B", "active": false},
	}
	got := Filter(rows, cols, map[string]types.FilterValue{"active": types.Text("true")}, "", types.AllFeatures())
	assert.Equal(t, []any{1}, ids(got))
}

func TestFilterMultiSelectScenario(t *testing.T) {
	cols := types.IndexColumns(peopleColumns(types.AllFeatures()))
	skills := cols["skills"]
	assert.True(t, MatchesColumnFilter(types.Record{"skills": []any{"React", "Vue"}}, types.AnyOf("React"), skills))
	assert.False(t, MatchesColumnFilter(types.Record{"skills": []any{"Angular"}}, types.AnyOf("React"), skills))
}

func TestFilterComposition(t *testing.T) {
	cols := peopleColumns(types.AllFeatures())
	rows := []types.Record{
		{"id": 1, "name": "Ann", "team": "core", "active": true},
		{"id": 2, "name": "Bob", "team": "core", "active": false},
		{"id": 3, "name": "Annika", "team": "web", "active": true},
		{"id": 4, "name": "Cid", "team": "core", "active": true},
	}
	filters := map[string]types.FilterValue{
		"team":    types.Text("core"),
		"active":  types.Text("all"),
		"unknown": types.Text("x"),
	}
	got := Filter(rows, cols, filters, "ann", types.AllFeatures())
	assert.Equal(t, []any{1}, ids(got))
}

func TestFilterDisabledFeatureIgnoresFilters(t *testing.T) {
	features := types.AllFeatures()
	features.Filtering = false
	cols := peopleColumns(features)
	rows := []types.Record{{"id": 1, "name": "A"}, {"id": 2, "name": "B"}}
	got := Filter(rows, cols, map[string]types.FilterValue{"name": types.Text("A")}, "", features)
	assert.Len(t, got, 2)
}

func TestGlobalSearch(t *testing.T) {
	cols := peopleColumns(types.AllFeatures())
	rec := types.Record{"id": 1, "name": "Grace", "skills": []any{"COBOL"}, "team": "navy", "age": 85}

	assert.True(t, MatchesGlobalSearch(rec, "grace", cols, true))
	assert.True(t, MatchesGlobalSearch(rec, "cob", cols, true), "multi-choice values are searched")
	assert.True(t, MatchesGlobalSearch(rec, "85", cols, true))
	assert.False(t, MatchesGlobalSearch(rec, "navy", cols, true), "unsearchable column is skipped")
	assert.True(t, MatchesGlobalSearch(rec, "   ", cols, true))
	assert.True(t, MatchesGlobalSearch(rec, "nothing like it", cols, false), "disabled search matches everything")
}

func TestSortScenario(t *testing.T) {
	cols := types.IndexColumns(peopleColumns(types.AllFeatures()))
	rows := []types.Record{{"id": 1, "name": "B"}, {"id": 2, "name": "A"}}

	state := ToggleSort(nil, "name", false, cols, types.AllFeatures())
	require.Equal(t, []types.SortKey{{Field: "name"}}, state)
	assert.Equal(t, []any{2, 1}, ids(Sort(rows, state, cols)))

	state = ToggleSort(state, "name", false, cols, types.AllFeatures())
	require.Equal(t, []types.SortKey{{Field: "name", Desc: true}}, state)
	assert.Equal(t, []any{1, 2}, ids(Sort(rows, state, cols)))

	state = ToggleSort(state, "name", false, cols, types.AllFeatures())
	assert.Empty(t, state)
}

func TestSortIsStable(t *testing.T) {
	cols := types.IndexColumns(peopleColumns(types.AllFeatures()))
	var rows []types.Record
	for i := 0; i < 50; i++ {
		rows = append(rows, types.Record{"id": i, "team": fmt.Sprintf("t%d", i%3)})
	}
	sorted := Sort(rows, []types.SortKey{{Field: "team"}}, cols)
	last := map[any]int{}
	for _, r := range sorted {
		id := r["id"].(int)
		if prev, ok := last[r["team"]]; ok {
			assert.Less(t, prev, id, "ties keep input order")
		}
		last[r["team"]] = id
	}
	assert.Equal(t, 0, rows[0]["id"], "input is not modified")
}

func TestSortMultiKey(t *testing.T) {
	cols := types.IndexColumns(peopleColumns(types.AllFeatures()))
	rows := []types.Record{
		{"id": 1, "team": "web", "age": 30},
		{"id": 2, "team": "core", "age": 25},
		{"id": 3, "team": "web", "age": 40},
		{"id": 4, "team": "core", "age": 50},
	}
	keys := []types.SortKey{{Field: "team"}, {Field: "age", Desc: true}}
	assert.Equal(t, []any{4, 2, 3, 1}, ids(Sort(rows, keys, cols)))
}

func TestToggleSortMulti(t *testing.T) {
	cols := types.IndexColumns(peopleColumns(types.AllFeatures()))
	f := types.AllFeatures()

	s := ToggleSort(nil, "team", true, cols, f)
	s = ToggleSort(s, "age", true, cols, f)
	assert.Equal(t, []types.SortKey{{Field: "team"}, {Field: "age"}}, s)

	s = ToggleSort(s, "team", true, cols, f)
	assert.Equal(t, []types.SortKey{{Field: "team", Desc: true}, {Field: "age"}}, s)

	s = ToggleSort(s, "team", true, cols, f)
	assert.Equal(t, []types.SortKey{{Field: "age"}}, s)

	tests := []struct {
		name  string
		start []types.SortKey
		key   string
		want  []types.SortKey
	}{
		{
			name:  "plain click on an unsorted column replaces the sort",
			start: []types.SortKey{{Field: "team"}, {Field: "age"}},
			key:   "name",
			want:  []types.SortKey{{Field: "name"}},
		},
		{
			name:  "plain click on an ascending key advances it",
			start: []types.SortKey{{Field: "team"}, {Field: "age"}},
			key:   "age",
			want:  []types.SortKey{{Field: "age", Desc: true}},
		},
		{
			name:  "plain click on a descending key clears the sort",
			start: []types.SortKey{{Field: "team"}, {Field: "age", Desc: true}},
			key:   "age",
			want:  []types.SortKey{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToggleSort(tt.start, tt.key, false, cols, f))
		})
	}
}

func TestToggleSortNoOps(t *testing.T) {
	features := types.AllFeatures()
	cols := shape.Resolve(types.NewShape(
		types.Field("name", &types.ColumnConfig{}),
		types.Field("blob", &types.ColumnConfig{Sortable: types.Bool(false)}),
	), features)
	idx := types.IndexColumns(cols)
	start := []types.SortKey{{Field: "name"}}

	assert.Equal(t, start, ToggleSort(start, "blob", false, idx, features))
	assert.Equal(t, start, ToggleSort(start, "missing", false, idx, features))

	features.Sorting = false
	assert.Equal(t, start, ToggleSort(start, "name", false, idx, features))
}

func TestSanitizeSort(t *testing.T) {
	cols := types.IndexColumns(peopleColumns(types.AllFeatures()))
	got := SanitizeSort([]types.SortKey{{Field: "gone"}, {Field: "age"}, {Field: "age", Desc: true}, {Field: "name"}}, cols)
	assert.Equal(t, []types.SortKey{{Field: "age"}, {Field: "name"}}, got)
}

func TestPageCount(t *testing.T) {
	for rows := 0; rows <= 60; rows++ {
		for size := 1; size <= 12; size++ {
			want := (rows + size - 1) / size
			if want < 1 {
				want = 1
			}
			assert.Equal(t, want, PageCount(rows, size), "rows=%d size=%d", rows, size)
		}
	}

	tests := []struct {
		name       string
		rows, size int
		want       int
	}{
		{name: "huge size", rows: 3, size: math.MaxInt, want: 1},
		{name: "huge rows", rows: math.MaxInt, size: 2, want: math.MaxInt/2 + 1},
		{name: "huge both", rows: math.MaxInt, size: math.MaxInt, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageCount(tt.rows, tt.size))
		})
	}
}

func TestPaginateScenario(t *testing.T) {
	rows := make([]types.Record, 150)
	for i := range rows {
		rows[i] = types.Record{"id": i}
	}

	p := Paginate(rows, 0, 25)
	assert.Equal(t, 6, p.Count)
	assert.Len(t, p.Rows, 25)

	p = Paginate(rows, 5, 50)
	assert.Equal(t, 3, p.Count)
	assert.Equal(t, 2, p.Index, "index past the end falls back to the last page")
	assert.Equal(t, 100, p.Rows[0]["id"])
	assert.Len(t, p.Rows, 50)
}

func TestPaginateNeverEmptyByOverflow(t *testing.T) {
	rows := make([]types.Record, 7)
	for i := range rows {
		rows[i] = types.Record{"id": i}
	}
	for idx := 0; idx < 10; idx++ {
		p := Paginate(rows, idx, 3)
		assert.NotEmpty(t, p.Rows, "index %d", idx)
	}
	assert.Len(t, Paginate(rows, 9, 3).Rows, 1)

	empty := Paginate(nil, 4, 10)
	assert.Equal(t, 1, empty.Count)
	assert.Equal(t, 0, empty.Index)
	assert.Empty(t, empty.Rows)

	huge := Paginate(rows, 0, math.MaxInt)
	assert.Equal(t, 1, huge.Count)
	assert.Equal(t, 0, huge.Index)
	assert.Len(t, huge.Rows, 7)
	assert.Len(t, Paginate(rows, math.MaxInt, math.MaxInt).Rows, 7)

	all := Paginate(rows, 3, 0)
	assert.Len(t, all.Rows, 7)
	assert.Equal(t, 1, all.Count)
}
