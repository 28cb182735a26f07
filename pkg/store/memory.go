package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps records in a map.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]BuildRecord
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]BuildRecord)}
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, rec *BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = *rec
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (*BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, limit int) ([]*BuildRecord, error) {
	s.mu.RLock()
	out := make([]*BuildRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, &rec)
	}
	s.mu.RUnlock()
	return newestFirst(out, limit), nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

func newestFirst(recs []*BuildRecord, limit int) []*BuildRecord {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	slices.SortFunc(recs, func(a, b *BuildRecord) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

var _ Store = (*MemoryStore)(nil)
