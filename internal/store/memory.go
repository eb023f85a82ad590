package store

import (
	"slices"
	"sync"

	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// Memory keeps state in a map for the life of the process.
type Memory struct {
	mu     sync.RWMutex
	closed bool
	states map[string]types.PersistedState
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{states: make(map[string]types.PersistedState)}
}

func (m *Memory) Load(table string) (types.PersistedState, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return types.PersistedState{}, false, types.ErrStoreClosed
	}
	p, ok := m.states[table]
	return p.Clone(), ok, nil
}

func (m *Memory) Save(table string, state types.PersistedState) error {
	if err := checkName(table); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrStoreClosed
	}
	m.states[table] = state.Clone()
	return nil
}

func (m *Memory) Delete(table string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrStoreClosed
	}
	delete(m.states, table)
	return nil
}

func (m *Memory) Tables() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, types.ErrStoreClosed
	}
	names := make([]string, 0, len(m.states))
	for k := range m.states {
		names = append(names, k)
	}
	slices.Sort(names)
	return names, nil
}

// Close is idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
