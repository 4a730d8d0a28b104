// Package memory provides an in-process RecordStore used by tests and
// ephemeral deployments.
package memory

import (
	"context"
	"sync"

	"github.com/oksasatya/teambuilder/internal/domain/repository"
)

type collection struct {
	order []string
	docs  map[string]repository.Document
}

// RecordStore keeps documents in maps guarded by a mutex.
// FailWrites, when set, makes every PutOne/PatchOne return it.
type RecordStore struct {
	mu          sync.Mutex
	collections map[repository.Kind]*collection
	FailWrites  error
	writes      int
}

func NewRecordStore() *RecordStore {
	return &RecordStore{collections: make(map[repository.Kind]*collection)}
}

func (s *RecordStore) coll(kind repository.Kind) *collection {
	c, ok := s.collections[kind]
	if !ok {
		c = &collection{docs: make(map[string]repository.Document)}
		s.collections[kind] = c
	}
	return c
}

// SetFailWrites toggles write-fault injection.
func (s *RecordStore) SetFailWrites(err error) {
	s.mu.Lock()
	s.FailWrites = err
	s.mu.Unlock()
}

// Writes returns how many writes succeeded so far.
func (s *RecordStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *RecordStore) LoadAll(_ context.Context, kind repository.Kind) ([]repository.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.coll(kind)
	out := make([]repository.Document, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, copyDoc(c.docs[id]))
	}
	return out, nil
}

func (s *RecordStore) PutOne(_ context.Context, kind repository.Kind, doc repository.Document) error {
	id, err := repository.RequireID(kind, doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	c := s.coll(kind)
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = copyDoc(doc)
	s.writes++
	return nil
}

func (s *RecordStore) PatchOne(_ context.Context, kind repository.Kind, doc repository.Document) error {
	id, err := repository.RequireID(kind, doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	c := s.coll(kind)
	existing, ok := c.docs[id]
	if !ok {
		return repository.ErrRecordNotFound
	}
	c.docs[id] = existing.Merge(copyDoc(doc))
	s.writes++
	return nil
}

func (s *RecordStore) Close() error { return nil }

// copyDoc round-trips through JSON so callers never share nested slices.
func copyDoc(d repository.Document) repository.Document {
	out, err := repository.ToDocument(d)
	if err != nil {
		return d
	}
	return out
}

var _ repository.RecordStore = (*RecordStore)(nil)
