package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrRecordNotFound is returned by PatchOne when no record has the given id.
var ErrRecordNotFound = errors.New("record not found")

// Kind names a collection of records.
type Kind string

const (
	KindUsers    Kind = "users"
	KindProjects Kind = "projects"
)

// Kinds lists every collection the marketplace persists.
var Kinds = []Kind{KindUsers, KindProjects}

// Document is a JSON-shaped record. Every document carries its id under "id".
type Document map[string]any

// ID returns the document id or "" when absent.
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// RecordStore is the persistence contract every backend satisfies.
// Local blob files, Postgres, Redis and Firestore are interchangeable behind it.
type RecordStore interface {
	// LoadAll returns every record of kind, in insertion order when the backend keeps one.
	LoadAll(ctx context.Context, kind Kind) ([]Document, error)
	// PutOne creates or replaces the record identified by doc.ID().
	PutOne(ctx context.Context, kind Kind, doc Document) error
	// PatchOne merges the fields of doc into the existing record with doc.ID().
	PatchOne(ctx context.Context, kind Kind, doc Document) error
	Close() error
}

// ToDocument converts a JSON-tagged value into a Document.
func ToDocument(v any) (Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Decode fills dest from a Document using its JSON tags.
func (d Document) Decode(dest any) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dest)
}

// Merge returns a copy of d with the fields of patch applied on top.
func (d Document) Merge(patch Document) Document {
	out := make(Document, len(d)+len(patch))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// RequireID validates that doc carries a non-empty id.
func RequireID(kind Kind, doc Document) (string, error) {
	id := doc.ID()
	if id == "" {
		return "", fmt.Errorf("%s record without id", kind)
	}
	return id, nil
}
