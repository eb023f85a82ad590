// Package datagrid is the public entry point of the table state engine.
//
// A Table is built from a Shape (the declarative column configuration) and
// a record set. It is driven by dispatching actions and read through
// computed views:
//
//	t, err := datagrid.New(shape, rows,
//	    datagrid.WithTableName("people"),
//	    datagrid.WithStore(datagrid.NewMemoryStore()),
//	    datagrid.OnRowSave(save),
//	)
//	t.Dispatch(datagrid.ToggleSort{Field: "name"})
//	v := t.View()
//
// A Table is single-threaded: call it from one goroutine.
package datagrid

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/datagrid/internal/engine"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// Version is the datagrid release.
const Version = "0.1.0"

type (
	Table = engine.Table
	View  = engine.View
	State = engine.State

	Action           = engine.Action
	SetFilter        = engine.SetFilter
	ClearFilters     = engine.ClearFilters
	ApplySearch      = engine.ApplySearch
	ToggleSort       = engine.ToggleSort
	ClearSort        = engine.ClearSort
	SetPage          = engine.SetPage
	SetPageSize      = engine.SetPageSize
	ToggleSelect     = engine.ToggleSelect
	ToggleSelectPage = engine.ToggleSelectPage
	ClearSelection   = engine.ClearSelection
	ToggleColumn     = engine.ToggleColumn
	MoveColumn       = engine.MoveColumn
	SetColumnOrder   = engine.SetColumnOrder
	ResetColumns     = engine.ResetColumns
)

// Column move directions.
const (
	Left  = -1
	Right = 1
)

// Option configures New.
type Option func(*engine.Config)

// New builds a table over records using shape. Without options every
// feature is enabled and state lives in memory only.
func New(shape types.Shape, records []types.Record, opts ...Option) (*Table, error) {
	cfg := engine.Config{
		Shape:   shape,
		Records: records,
		Options: types.DefaultOptions(),
		Logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return engine.New(cfg)
}

// WithOptions replaces every option at once. Zero fields take defaults.
func WithOptions(o types.Options) Option {
	return func(c *engine.Config) { c.Options = o.WithDefaults() }
}

// WithTableName keys persisted state.
func WithTableName(name string) Option {
	return func(c *engine.Config) { c.Options.TableName = name }
}

// WithRowID names the identity field.
func WithRowID(field string) Option {
	return func(c *engine.Config) { c.Options.RowID = field }
}

// WithPageSize sets the initial page size.
func WithPageSize(n int) Option {
	return func(c *engine.Config) { c.Options.PageSize = n }
}

// WithSearchDebounce sets how long a SearchBox built by NewTableSearchBox
// waits after the last keystroke.
func WithSearchDebounce(d time.Duration) Option {
	return func(c *engine.Config) { c.Options.SearchDebounce = d }
}

// WithFeatures sets the global feature toggles.
func WithFeatures(f types.Features) Option {
	return func(c *engine.Config) { c.Options.Features = f }
}

// WithLocation sets the timezone date cells are exported in.
func WithLocation(loc *time.Location) Option {
	return func(c *engine.Config) { c.Options.Location = loc }
}

// WithStore persists table state through s.
func WithStore(s types.StateStore) Option {
	return func(c *engine.Config) { c.Store = s }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *engine.Config) { c.Logger = l }
}

// OnRowSave registers the callback for committed edits.
func OnRowSave(fn func(types.Record) error) Option {
	return func(c *engine.Config) { c.OnRowSave = fn }
}

// OnSelectionChange registers the selection observer.
func OnSelectionChange(fn func([]types.Record)) Option {
	return func(c *engine.Config) { c.OnSelectionChange = fn }
}

// OnStateChange registers the persisted-state observer.
func OnStateChange(fn func(types.PersistedState)) Option {
	return func(c *engine.Config) { c.OnStateChange = fn }
}
