package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/teambuilder/internal/domain/repository"
)

// RecordStore keeps every record as a JSONB document in the records table,
// keyed by (kind, id).
type RecordStore struct {
	pool *pgxpool.Pool
}

func NewRecordStore(pool *pgxpool.Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

func (r *RecordStore) LoadAll(ctx context.Context, kind repository.Kind) ([]repository.Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT doc
		FROM records
		WHERE kind = $1
		ORDER BY seq
	`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]repository.Document, 0, 16)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc repository.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s record: %w", kind, err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RecordStore) PutOne(ctx context.Context, kind repository.Kind, doc repository.Document) error {
	id, err := repository.RequireID(kind, doc)
	if err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO records (kind, id, doc)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (kind, id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
	`, string(kind), id, string(b))
	return err
}

func (r *RecordStore) PatchOne(ctx context.Context, kind repository.Kind, doc repository.Document) error {
	id, err := repository.RequireID(kind, doc)
	if err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE records
		SET doc = doc || $3::jsonb, updated_at = now()
		WHERE kind = $1 AND id = $2
	`, string(kind), id, string(b))
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}

// Close is a no-op; the pool is owned by the caller.
func (r *RecordStore) Close() error { return nil }

var _ repository.RecordStore = (*RecordStore)(nil)
