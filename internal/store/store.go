// Package store provides StateStore adapters for persisting table state:
// an in-memory map, a JSONL file, and a SQLite database.
package store

import (
	"fmt"
	"path/filepath"

	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// File names used inside the data directory.
const (
	StateFileName = "tables.jsonl"
	DBFileName    = "datagrid.db"
)

// Store is a StateStore that can also enumerate what it holds.
type Store interface {
	types.StateStore

	// Tables returns the names with saved state, sorted.
	Tables() ([]string, error)
}

// Open returns the store for backend rooted at dataDir.
func Open(backend, dataDir string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile, "":
		return OpenFile(filepath.Join(dataDir, StateFileName))
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dataDir, DBFileName))
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrStoreUnknown, backend)
	}
}

func checkName(table string) error {
	if !types.ValidTableName(table) {
		return fmt.Errorf("%w: %q", types.ErrInvalidTableName, table)
	}
	return nil
}
