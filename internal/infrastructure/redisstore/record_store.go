// Package redisstore keeps one Redis hash per kind: field = record id,
// value = JSON document.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/teambuilder/internal/domain/repository"
)

const (
	recordsKeyPrefix = "teambuilder:records:" // hash per kind: teambuilder:records:{kind}
	orderKeyPrefix   = "teambuilder:order:"   // list of ids in insertion order: teambuilder:order:{kind}
	maxPatchRetries  = 5
)

// RecordStore implements repository.RecordStore on top of go-redis.
type RecordStore struct {
	client *redis.Client
}

func NewRecordStore(client *redis.Client) *RecordStore {
	return &RecordStore{client: client}
}

func (s *RecordStore) recordsKey(kind repository.Kind) string {
	return recordsKeyPrefix + string(kind)
}

func (s *RecordStore) orderKey(kind repository.Kind) string {
	return orderKeyPrefix + string(kind)
}

func (s *RecordStore) LoadAll(ctx context.Context, kind repository.Kind) ([]repository.Document, error) {
	ids, err := s.client.LRange(ctx, s.orderKey(kind), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s ids: %w", kind, err)
	}
	raw, err := s.client.HGetAll(ctx, s.recordsKey(kind)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", kind, err)
	}

	out := make([]repository.Document, 0, len(raw))
	seen := make(map[string]bool, len(ids))
	appendDoc := func(id string) error {
		val, ok := raw[id]
		if !ok || seen[id] {
			return nil
		}
		seen[id] = true
		var doc repository.Document
		if err := json.Unmarshal([]byte(val), &doc); err != nil {
			return fmt.Errorf("failed to unmarshal %s/%s: %w", kind, id, err)
		}
		out = append(out, doc)
		return nil
	}
	for _, id := range ids {
		if err := appendDoc(id); err != nil {
			return nil, err
		}
	}
	// records written without an order entry come last
	for id := range raw {
		if err := appendDoc(id); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *RecordStore) PutOne(ctx context.Context, kind repository.Kind, doc repository.Document) error {
	id, err := repository.RequireID(kind, doc)
	if err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s/%s: %w", kind, id, err)
	}

	created, err := s.client.HSetNX(ctx, s.recordsKey(kind), id, b).Result()
	if err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", kind, id, err)
	}
	if created {
		if err := s.client.RPush(ctx, s.orderKey(kind), id).Err(); err != nil {
			return fmt.Errorf("failed to index %s/%s: %w", kind, id, err)
		}
		return nil
	}
	if err := s.client.HSet(ctx, s.recordsKey(kind), id, b).Err(); err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", kind, id, err)
	}
	return nil
}

// PatchOne does an optimistic read-merge-write under WATCH, retrying when
// another writer touched the hash in between.
func (s *RecordStore) PatchOne(ctx context.Context, kind repository.Kind, doc repository.Document) error {
	id, err := repository.RequireID(kind, doc)
	if err != nil {
		return err
	}
	key := s.recordsKey(kind)

	txf := func(tx *redis.Tx) error {
		val, err := tx.HGet(ctx, key, id).Result()
		if errors.Is(err, redis.Nil) {
			return repository.ErrRecordNotFound
		}
		if err != nil {
			return err
		}
		var existing repository.Document
		if err := json.Unmarshal([]byte(val), &existing); err != nil {
			return fmt.Errorf("failed to unmarshal %s/%s: %w", kind, id, err)
		}
		b, err := json.Marshal(existing.Merge(doc))
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, id, b)
			return nil
		})
		return err
	}

	for i := 0; i < maxPatchRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
			return fmt.Errorf("failed to patch %s/%s: %w", kind, id, err)
		}
		return err
	}
	return fmt.Errorf("failed to patch %s/%s: too much contention", kind, id)
}

// Close is a no-op; the client is owned by the caller.
func (s *RecordStore) Close() error { return nil }

var _ repository.RecordStore = (*RecordStore)(nil)
