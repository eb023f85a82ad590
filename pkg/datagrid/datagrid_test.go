package datagrid_test

import (
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/datagrid/pkg/datagrid"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

func shape() types.Shape {
	return types.NewShape(
		types.Field("id", &types.ColumnConfig{Type: types.FieldText, Editable: types.Bool(false)}),
		types.Field("name", &types.ColumnConfig{}),
		types.Field("active", &types.ColumnConfig{Type: types.FieldBoolean}),
	)
}

func rows() []types.Record {
	return []types.Record{
		{"id": "a", "name": "Ada", "active": true},
		{"id": "b", "name": "Grace", "active": false},
		{"id": "c", "name": "Linus", "active": true},
	}
}

func TestNewDefaults(t *testing.T) {
	tbl, err := datagrid.New(shape(), rows())
	require.NoError(t, err)

	v := tbl.View()
	assert.Equal(t, 3, v.FilteredCount)
	assert.Equal(t, types.DefaultPageSize, v.Page.Size)
	assert.Equal(t, "default", tbl.Name())
}

func TestBooleanFilterScenario(t *testing.T) {
	tbl, err := datagrid.New(shape(), rows())
	require.NoError(t, err)

	tbl.Dispatch(datagrid.SetFilter{Field: "active", Value: types.FilterValue{Value: "true"}})
	v := tbl.View()
	assert.Equal(t, []string{"a", "c"}, types.Identities(v.Rows, "id"))
}

func TestStatePersistsAcrossInstances(t *testing.T) {
	st, err := datagrid.OpenSQLiteStore(filepath.Join(t.TempDir(), "datagrid.db"))
	require.NoError(t, err)
	defer st.Close()

	first, err := datagrid.New(shape(), rows(), datagrid.WithTableName("people"), datagrid.WithStore(st))
	require.NoError(t, err)
	first.Dispatch(datagrid.ToggleColumn{Field: "active"}, datagrid.MoveColumn{Field: "name", Direction: datagrid.Left})

	second, err := datagrid.New(shape(), rows(), datagrid.WithTableName("people"), datagrid.WithStore(st))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "id"}, second.State().Layout.Visible())
}

func TestFeaturesOption(t *testing.T) {
	f := types.AllFeatures()
	f.Sorting = false
	tbl, err := datagrid.New(shape(), rows(), datagrid.WithFeatures(f))
	require.NoError(t, err)

	tbl.Dispatch(datagrid.ToggleSort{Field: "name"})
	assert.Empty(t, tbl.State().Sort)
	for _, c := range tbl.Columns() {
		assert.False(t, c.Sortable, c.Field)
	}
}

func TestSearchBoxDebounces(t *testing.T) {
	var applied atomic.Int32
	var last atomic.Value
	box := datagrid.NewSearchBox(15*time.Millisecond, func(q string) {
		applied.Add(1)
		last.Store(q)
	})
	defer box.Close()

	box.Type("g")
	box.Type("gr")
	box.Type("gra")
	require.Eventually(t, func() bool { return applied.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "gra", last.Load())
}

func TestTableSearchBoxUsesConfiguredDebounce(t *testing.T) {
	tests := []struct {
		name string
		opts []datagrid.Option
		want time.Duration
	}{
		{name: "default", want: types.DefaultSearchDebounce},
		{name: "configured", opts: []datagrid.Option{datagrid.WithSearchDebounce(20 * time.Millisecond)}, want: 20 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := datagrid.New(shape(), rows(), tt.opts...)
			require.NoError(t, err)
			box := datagrid.NewTableSearchBox(tbl, func(string) {})
			defer box.Close()
			assert.Equal(t, tt.want, box.Delay())
		})
	}

	assert.Equal(t, types.DefaultSearchDebounce, datagrid.NewSearchBox(0, func(string) {}).Delay())
}

func TestTableSearchBoxFiresAfterConfiguredDelay(t *testing.T) {
	tbl, err := datagrid.New(shape(), rows(), datagrid.WithSearchDebounce(10*time.Millisecond))
	require.NoError(t, err)

	queries := make(chan string, 1)
	box := datagrid.NewTableSearchBox(tbl, func(q string) { queries <- q })
	defer box.Close()

	start := time.Now()
	box.Type("ada")
	select {
	case q := <-queries:
		assert.Equal(t, "ada", q)
		assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("search was never applied")
	}
}

func TestSearchBoxFlushDrivesTable(t *testing.T) {
	tbl, err := datagrid.New(shape(), rows())
	require.NoError(t, err)

	box := datagrid.NewSearchBox(time.Hour, func(q string) {
		tbl.Dispatch(datagrid.ApplySearch{Query: q})
	})
	box.Type("lin")
	assert.Equal(t, 3, tbl.View().FilteredCount)

	require.True(t, box.Flush())
	assert.Equal(t, "lin", tbl.State().Search)
	assert.Equal(t, 1, tbl.View().FilteredCount)
}
