package store

import (
	"sync"

	"hvac_simulator/internal/model"
)

// Store memoizes environment tables in memory, keyed by the exact parameter
// tuple that produced them. There is no eviction; a session only ever sees a
// handful of distinct tuples.
type Store struct {
	mu     sync.RWMutex
	tables map[model.SimulationParameters][]model.EnvironmentRow
}

func New() *Store {
	return &Store{
		tables: make(map[model.SimulationParameters][]model.EnvironmentRow),
	}
}

// Table returns a copy of the table cached for p.
func (s *Store) Table(p model.SimulationParameters) ([]model.EnvironmentRow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.tables[p]
	if !ok {
		return nil, false
	}
	return copyRows(rows), true
}

// Put stores rows for p, replacing any earlier table.
func (s *Store) Put(p model.SimulationParameters, rows []model.EnvironmentRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[p] = copyRows(rows)
}

// TableOrCreate returns the cached table for p, calling create on a miss.
// The second return value reports whether the table came from the cache.
func (s *Store) TableOrCreate(p model.SimulationParameters, create func() []model.EnvironmentRow) ([]model.EnvironmentRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rows, ok := s.tables[p]; ok {
		return copyRows(rows), true
	}
	rows := create()
	s.tables[p] = rows
	return copyRows(rows), false
}

// Len returns the number of cached tables.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables)
}

// Reset drops every cached table.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = make(map[model.SimulationParameters][]model.EnvironmentRow)
}

func copyRows(rows []model.EnvironmentRow) []model.EnvironmentRow {
	out := make([]model.EnvironmentRow, len(rows))
	copy(out, rows)
	return out
}
