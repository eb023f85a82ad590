package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/datagrid/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

const stateTable = "table_state"

// SQLite keeps table state in a SQLite database, one row per table.
type SQLite struct {
	mu     sync.RWMutex
	db     *sql.DB
	qb     squirrel.StatementBuilderType
	closed bool
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &SQLite{
		db: db,
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

func (s *SQLite) Load(table string) (types.PersistedState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return types.PersistedState{}, false, types.ErrStoreClosed
	}
	query, args, err := s.qb.Select("state").From(stateTable).
		Where(squirrel.Eq{"name": table}).ToSql()
	if err != nil {
		return types.PersistedState{}, false, err
	}

	var raw string
	err = s.db.QueryRow(query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return types.PersistedState{}, false, nil
	}
	if err != nil {
		return types.PersistedState{}, false, fmt.Errorf("loading state %s: %w", table, err)
	}
	var p types.PersistedState
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return types.PersistedState{}, false, fmt.Errorf("decoding state %s: %w", table, err)
	}
	return p, true, nil
}

func (s *SQLite) Save(table string, state types.PersistedState) error {
	if err := checkName(table); err != nil {
		return err
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding state %s: %w", table, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	query, args, err := s.qb.Insert(stateTable).
		Columns("name", "revision", "state", "updated_at").
		Values(table, newRevision(), string(raw), time.Now().UTC().Format(time.RFC3339Nano)).
		Suffix("ON CONFLICT(name) DO UPDATE SET revision = excluded.revision, state = excluded.state, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("saving state %s: %w", table, err)
	}
	return nil
}

func (s *SQLite) Delete(table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	query, args, err := s.qb.Delete(stateTable).Where(squirrel.Eq{"name": table}).ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("deleting state %s: %w", table, err)
	}
	return nil
}

func (s *SQLite) Tables() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, types.ErrStoreClosed
	}
	query, args, err := s.qb.Select("name").From(stateTable).OrderBy("name").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Revision returns the revision id of the last save of table.
func (s *SQLite) Revision(table string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", false, types.ErrStoreClosed
	}
	query, args, err := s.qb.Select("revision").From(stateTable).
		Where(squirrel.Eq{"name": table}).ToSql()
	if err != nil {
		return "", false, err
	}
	var rev string
	err = s.db.QueryRow(query, args...).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rev, true, nil
}

// Close closes the database. Close is idempotent.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
