// Package localstore persists each kind as a single JSON array blob on disk,
// the way the browser build kept them in local storage.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/teambuilder/internal/domain/repository"
)

// FilePrefix is prepended to every blob name: marketplace_users.json, marketplace_projects.json.
const FilePrefix = "marketplace_"

// RecordStore reads every blob once when first touched and rewrites the
// whole blob after each change to its kind.
type RecordStore struct {
	DataDir string
	Logger  *logrus.Logger

	mu    sync.Mutex
	blobs map[repository.Kind][]repository.Document
}

// NewRecordStore ensures dir exists.
func NewRecordStore(dir string, logger *logrus.Logger) (*RecordStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &RecordStore{
		DataDir: dir,
		Logger:  logger,
		blobs:   make(map[repository.Kind][]repository.Document),
	}, nil
}

func (s *RecordStore) path(kind repository.Kind) string {
	return filepath.Join(s.DataDir, FilePrefix+string(kind)+".json")
}

// blob returns the cached collection, reading it from disk on first use.
// Must be called with s.mu held.
func (s *RecordStore) blob(kind repository.Kind) ([]repository.Document, error) {
	if docs, ok := s.blobs[kind]; ok {
		return docs, nil
	}
	content, err := os.ReadFile(s.path(kind))
	if errors.Is(err, os.ErrNotExist) {
		s.blobs[kind] = []repository.Document{}
		return s.blobs[kind], nil
	}
	if err != nil {
		return nil, err
	}
	var docs []repository.Document
	if len(content) > 0 {
		if err := json.Unmarshal(content, &docs); err != nil {
			// An unreadable blob is treated as empty; the next write replaces it.
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("file", s.path(kind)).Warn("could not unmarshal blob, starting empty")
			}
			docs = nil
		}
	}
	if docs == nil {
		docs = []repository.Document{}
	}
	s.blobs[kind] = docs
	return docs, nil
}

func (s *RecordStore) LoadAll(_ context.Context, kind repository.Kind) ([]repository.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.blob(kind)
	if err != nil {
		return nil, err
	}
	out := make([]repository.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Merge(nil))
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
	docs, err := s.blob(kind)
	if err != nil {
		return err
	}
	next := make([]repository.Document, 0, len(docs)+1)
	replaced := false
	for _, d := range docs {
		if d.ID() == id {
			next = append(next, doc.Merge(nil))
			replaced = true
			continue
		}
		next = append(next, d)
	}
	if !replaced {
		next = append(next, doc.Merge(nil))
	}
	return s.save(kind, next)
}

func (s *RecordStore) PatchOne(_ context.Context, kind repository.Kind, doc repository.Document) error {
	id, err := repository.RequireID(kind, doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.blob(kind)
	if err != nil {
		return err
	}
	next := make([]repository.Document, len(docs))
	found := false
	for i, d := range docs {
		if d.ID() == id {
			next[i] = d.Merge(doc)
			found = true
			continue
		}
		next[i] = d
	}
	if !found {
		return repository.ErrRecordNotFound
	}
	return s.save(kind, next)
}

// save rewrites the whole blob via a temp file and an atomic rename, then
// swaps the cache. Must be called with s.mu held.
func (s *RecordStore) save(kind repository.Kind, docs []repository.Document) error {
	b, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", kind, err)
	}
	filePath := s.path(kind)
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, b, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tempPath, filePath); err != nil {
		return err
	}
	s.blobs[kind] = docs
	return nil
}

func (s *RecordStore) Close() error { return nil }

var _ repository.RecordStore = (*RecordStore)(nil)
