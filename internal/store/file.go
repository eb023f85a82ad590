package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/datagrid/internal/jsonl"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// entry is one line of the state file.
type entry struct {
	Table     string               `json:"table"`
	Revision  string               `json:"revision"`
	UpdatedAt time.Time            `json:"updated_at"`
	State     types.PersistedState `json:"state"`
}

// File keeps every table's state in a single JSONL file, one table per
// line. The file is rewritten atomically on every change.
type File struct {
	mu      sync.Mutex
	path    string
	closed  bool
	entries map[string]entry
}

// OpenFile loads path, creating its directory if needed. A missing file is
// an empty store.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}
	f := &File{path: path, entries: make(map[string]entry)}
	lines, err := jsonl.Read(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	for _, line := range lines {
		var e entry
		if err := json.Unmarshal(line, &e); err != nil || !types.ValidTableName(e.Table) {
			continue
		}
		f.entries[e.Table] = e
	}
	return f, nil
}

// Path returns the backing file.
func (f *File) Path() string { return f.path }

func (f *File) Load(table string) (types.PersistedState, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return types.PersistedState{}, false, types.ErrStoreClosed
	}
	e, ok := f.entries[table]
	return e.State.Clone(), ok, nil
}

func (f *File) Save(table string, state types.PersistedState) error {
	if err := checkName(table); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return types.ErrStoreClosed
	}
	prev, had := f.entries[table]
	f.entries[table] = entry{
		Table:     table,
		Revision:  newRevision(),
		UpdatedAt: time.Now().UTC(),
		State:     state.Clone(),
	}
	if err := f.flush(); err != nil {
		if had {
			f.entries[table] = prev
		} else {
			delete(f.entries, table)
		}
		return err
	}
	return nil
}

func (f *File) Delete(table string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return types.ErrStoreClosed
	}
	prev, ok := f.entries[table]
	if !ok {
		return nil
	}
	delete(f.entries, table)
	if err := f.flush(); err != nil {
		f.entries[table] = prev
		return err
	}
	return nil
}

func (f *File) Tables() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, types.ErrStoreClosed
	}
	return f.names(), nil
}

// Close is idempotent.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Revision returns the revision id of the last save of table.
func (f *File) Revision(table string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[table]
	return e.Revision, ok
}

func (f *File) names() []string {
	names := make([]string, 0, len(f.entries))
	for k := range f.entries {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// flush must be called with f.mu held.
func (f *File) flush() error {
	lines := make([]json.RawMessage, 0, len(f.entries))
	for _, name := range f.names() {
		b, err := json.Marshal(f.entries[name])
		if err != nil {
			return fmt.Errorf("encoding state %s: %w", name, err)
		}
		lines = append(lines, b)
	}
	return jsonl.Write(f.path, lines)
}

// newRevision returns a time-ordered revision id.
func newRevision() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
