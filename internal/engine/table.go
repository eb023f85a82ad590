package engine

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/datagrid/internal/edit"
	"github.com/mesh-intelligence/datagrid/internal/export"
	"github.com/mesh-intelligence/datagrid/internal/fieldtype"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// DefaultTableName keys persisted state when Options.TableName is empty.
const DefaultTableName = "default"

// Config is the input to New.
type Config struct {
	Shape   types.Shape
	Records []types.Record
	Options types.Options

	// Store persists table state. A nil store keeps state in memory only.
	Store types.StateStore

	Logger zerolog.Logger

	// OnRowSave receives the updated record after a committed edit that
	// actually changed something. An error keeps the draft open.
	OnRowSave func(types.Record) error

	// OnSelectionChange receives the selected records, in view order,
	// whenever the resolved selection changes. Defaults to a debug log.
	OnSelectionChange func([]types.Record)

	// OnStateChange receives the persisted state whenever it changes.
	OnStateChange func(types.PersistedState)
}

// Table is one stateful table instance. It is driven from a single event
// loop and is not safe for concurrent use.
type Table struct {
	shape   types.Shape
	model   Model
	state   State
	session *edit.Session
	store   types.StateStore
	name    string
	log     zerolog.Logger

	onRowSave         func(types.Record) error
	onSelectionChange func([]types.Record)
	onStateChange     func(types.PersistedState)

	persisted types.PersistedState
	selected  []string // sorted, so reordering alone is not a change
}

// New builds a table, restoring persisted state from cfg.Store when
// present. A failed load is logged and the table starts fresh.
func New(cfg Config) (*Table, error) {
	if err := cfg.Options.Validate(); err != nil {
		return nil, err
	}
	t := &Table{
		shape:             cfg.Shape,
		model:             NewModel(cfg.Shape, cfg.Records, cfg.Options),
		store:             cfg.Store,
		log:               cfg.Logger,
		onRowSave:         cfg.OnRowSave,
		onSelectionChange: cfg.OnSelectionChange,
		onStateChange:     cfg.OnStateChange,
	}
	t.name = t.model.Options.TableName
	if t.name == "" {
		t.name = DefaultTableName
	}
	if t.store == nil {
		t.store = nopStore{}
	}
	if t.onSelectionChange == nil {
		t.onSelectionChange = func(rows []types.Record) {
			t.log.Debug().Int("count", len(rows)).Strs("ids", types.Identities(rows, t.model.Options.RowID)).Msg("selection changed")
		}
	}
	t.session = edit.NewSession(t.model.Options.RowID)

	var restored *types.PersistedState
	p, ok, err := t.store.Load(t.name)
	switch {
	case err != nil:
		t.log.Warn().Err(err).Str("table", t.name).Msg("load table state")
	case ok:
		restored = &p
	}
	t.state = Initial(t.model, restored)
	t.persisted = t.state.Persisted()
	return t, nil
}

// Name returns the key the table persists state under.
func (t *Table) Name() string { return t.name }

// Shape returns the shape the columns were resolved from.
func (t *Table) Shape() types.Shape { return t.shape }

// Options returns the effective options.
func (t *Table) Options() types.Options { return t.model.Options }

// Columns returns every resolved column in declaration order.
func (t *Table) Columns() []types.ColumnDescriptor {
	return slices.Clone(t.model.Columns)
}

// Records returns the current record set.
func (t *Table) Records() []types.Record {
	return slices.Clone(t.model.Records)
}

// State returns the current state.
func (t *Table) State() State { return t.state }

// Snapshot returns the persistable part of the current state.
func (t *Table) Snapshot() types.PersistedState {
	return t.state.Persisted()
}

// View computes the current view.
func (t *Table) View() View {
	return ComputeView(t.model, t.state)
}

// Dispatch applies actions in order, then notifies observers once.
func (t *Table) Dispatch(actions ...Action) {
	next := t.state
	for _, a := range actions {
		before := next
		next = Reduce(t.model, next, a)
		t.log.Debug().Str("action", fmt.Sprintf("%T", a)).Bool("changed", !sameState(before, next)).Msg("dispatch")
	}
	t.apply(next)
}

// SetRecords replaces the record set. Selection and page index are
// reconciled against the new rows.
func (t *Table) SetRecords(records []types.Record) {
	t.model.Records = records
	t.apply(reconcile(t.model, t.state))
}

// MergeRecord replaces the record with the same identity as rec. It
// reports false when no such record exists.
func (t *Table) MergeRecord(rec types.Record) bool {
	id, ok := rec.Identity(t.model.Options.RowID)
	if !ok {
		return false
	}
	for i, r := range t.model.Records {
		if rid, ok := r.Identity(t.model.Options.RowID); ok && rid == id {
			records := slices.Clone(t.model.Records)
			records[i] = rec.Clone()
			t.SetRecords(records)
			return true
		}
	}
	return false
}

// SetShape swaps the column shape. Current order, visibility, filters and
// sort are migrated onto the new columns; selection is kept.
func (t *Table) SetShape(s types.Shape) {
	t.shape = s
	t.model.Columns = NewModel(s, nil, t.model.Options).Columns
	p := t.state.Persisted()
	next := Initial(t.model, &p)
	next.Selection = t.state.Selection
	t.apply(reconcile(t.model, next))
}

// BeginEdit opens a draft for the record with identity id. It returns
// false when editing is disabled, another draft is active, or the record
// cannot be found.
func (t *Table) BeginEdit(id string) (*edit.Draft, bool) {
	if !t.model.Options.Features.Editing {
		return nil, false
	}
	rec, ok := t.find(id)
	if !ok {
		return nil, false
	}
	d, ok := t.session.Begin(rec)
	if !ok {
		t.log.Debug().Str("id", id).Msg("edit already in progress")
		return nil, false
	}
	return d, true
}

// Draft returns the active draft, or nil.
func (t *Table) Draft() *edit.Draft { return t.session.Active() }

// SetField writes value into the active draft. Only editable columns can
// be written.
func (t *Table) SetField(key string, value any) bool {
	d := t.session.Active()
	if d == nil {
		return false
	}
	c, ok := types.IndexColumns(t.model.Columns)[key]
	if !ok || !c.Editable {
		return false
	}
	return d.Set(key, value)
}

// SaveEdit commits the active draft. OnRowSave runs only on a real change,
// and on success the saved record is merged into the table.
func (t *Table) SaveEdit() (edit.ChangeResult, error) {
	res, err := t.session.Commit(func(rec types.Record) error {
		if t.onRowSave != nil {
			if err := t.onRowSave(rec); err != nil {
				return fmt.Errorf("save row: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	if res.Changed {
		t.MergeRecord(res.Record)
	}
	return res, nil
}

// CancelEdit discards the active draft.
func (t *Table) CancelEdit() { t.session.Cancel() }

// Export projects the filtered and sorted rows (or the selection, when
// anything is selected) across visible columns and hands the grid to w.
func (t *Table) Export(w types.GridWriter) (types.Grid, error) {
	if !t.model.Options.Features.Export {
		return types.Grid{}, types.ErrExportDisabled
	}
	g, err := export.Write(w, t.ExportRequest())
	if err != nil {
		t.log.Warn().Err(err).Str("table", t.name).Msg("export")
	}
	return g, err
}

// ExportRequest builds the projection input for the current view.
func (t *Table) ExportRequest() export.Request {
	v := t.View()
	return export.Request{
		Rows:       v.Rows,
		Columns:    t.model.Columns,
		Order:      t.state.Layout.Order,
		Visibility: t.state.Layout.Visibility,
		Selected:   v.Selected,
		Format: fieldtype.Format{
			Location:   t.model.Options.Location,
			DateLayout: t.model.Options.DateLayout,
		},
	}
}

func (t *Table) find(id string) (types.Record, bool) {
	for _, r := range t.model.Records {
		if rid, ok := r.Identity(t.model.Options.RowID); ok && rid == id {
			return r, true
		}
	}
	return nil, false
}

// apply installs next and fires observers for whatever changed.
func (t *Table) apply(next State) {
	t.state = next

	sel := t.View().Selected
	ids := types.Identities(sel, t.model.Options.RowID)
	slices.Sort(ids)
	if !slices.Equal(ids, t.selected) {
		t.selected = ids
		t.onSelectionChange(sel)
	}

	p := next.Persisted()
	if p.Equal(t.persisted) {
		return
	}
	t.persisted = p
	if err := t.store.Save(t.name, p); err != nil {
		t.log.Warn().Err(err).Str("table", t.name).Msg("save table state")
	}
	if t.onStateChange != nil {
		t.onStateChange(p.Clone())
	}
}

func sameState(a, b State) bool {
	return a.Persisted().Equal(b.Persisted()) && a.Selection.Equal(b.Selection)
}

// nopStore backs tables created without a StateStore.
type nopStore struct{}

func (nopStore) Load(string) (types.PersistedState, bool, error) {
	return types.PersistedState{}, false, nil
}
func (nopStore) Save(string, types.PersistedState) error { return nil }
func (nopStore) Delete(string) error                     { return nil }
func (nopStore) Close() error                            { return nil }
