package draft

import (
	"sync"

	"github.com/goliatone/go-collegecms/pkg/formdata"
)

// MemStore is an in-memory Store used by tests and by sessions that opt out of
// durable drafts (local-storage failure falls back to one of these).
type MemStore struct {
	mu        sync.Mutex
	snapshots map[string]formdata.Record
}

// NewMemStore constructs an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{snapshots: make(map[string]formdata.Record)}
}

// Load implements Store.
func (s *MemStore) Load(key string) (formdata.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.snapshots[key]
	if !ok {
		return nil, nil
	}
	return record.Clone(), nil
}

// Save implements Store.
func (s *MemStore) Save(key string, record formdata.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[key] = record.Clone()
	return nil
}

// Clear implements Store.
func (s *MemStore) Clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, key)
	return nil
}
