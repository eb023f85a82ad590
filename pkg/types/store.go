package types

// StateStore persists table state keyed by table name. Implementations
// must return copies so callers cannot mutate stored state.
type StateStore interface {
	// Load returns the stored state for table. ok is false when nothing
	// has been saved under that name.
	Load(table string) (state PersistedState, ok bool, err error)

	// Save replaces the stored state for table.
	Save(table string, state PersistedState) error

	// Delete removes stored state for table. Deleting a missing entry
	// succeeds.
	Delete(table string) error

	// Close releases resources. After Close, operations return
	// ErrStoreClosed.
	Close() error
}
