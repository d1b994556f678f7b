package tables

import (
	"context"
	"sync"
)

// Store caches loaded tables for the lifetime of the process. The
// first Load for a table reads it from the underlying source; later
// calls return the cached rows without touching the source again.
// It is safe for concurrent use: the mutex around populate-if-absent
// guarantees at most one underlying read per table.
//
// Rows are never mutated after population. Failed loads are not
// cached, so a later call may retry the source.
type Store struct {
	source Source

	mu     sync.Mutex
	tables map[string][]Row
}

// NewStore creates a store over the given source.
func NewStore(source Source) *Store {
	return &Store{
		source: source,
		tables: make(map[string][]Row),
	}
}

// Load returns the rows of the named table, reading it from the
// source on first use. Row order from the source is preserved.
func (s *Store) Load(ctx context.Context, name string) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rows, ok := s.tables[name]; ok {
		return rows, nil
	}

	rows, err := s.source.ReadTable(ctx, name)
	if err != nil {
		return nil, err
	}

	s.tables[name] = rows
	return rows, nil
}
