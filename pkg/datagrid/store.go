package datagrid

import (
	"github.com/mesh-intelligence/datagrid/internal/store"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// Store backends.
const (
	StoreMemory = store.BackendMemory
	StoreFile   = store.BackendFile
	StoreSQLite = store.BackendSQLite
)

// NewMemoryStore returns a StateStore that lives as long as the process.
func NewMemoryStore() types.StateStore {
	return store.NewMemory()
}

// OpenFileStore opens a JSONL state file, creating it on first save.
func OpenFileStore(path string) (types.StateStore, error) {
	return store.OpenFile(path)
}

// OpenSQLiteStore opens or creates a SQLite state database.
//
// Example:
//
//	st, err := datagrid.OpenSQLiteStore(filepath.Join(dir, "datagrid.db"))
//	if err != nil { ... }
//	defer st.Close()
//	t, err := datagrid.New(shape, rows, datagrid.WithTableName("people"), datagrid.WithStore(st))
func OpenSQLiteStore(path string) (types.StateStore, error) {
	return store.OpenSQLite(path)
}

// OpenStore opens the named backend inside dataDir.
func OpenStore(backend, dataDir string) (types.StateStore, error) {
	return store.Open(backend, dataDir)
}
