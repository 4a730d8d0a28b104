package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/teambuilder/internal/domain/repository"
)

// setupTestStore connects to TEST_DB_DSN and applies the migrations.
// Skips when the variable is not set.
func setupTestStore(t *testing.T) *RecordStore {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping PostgreSQL integration test")
	}
	require.NoError(t, RunMigrations(dsn, "../../../db/migrations", nil))

	pool, err := NewPool(context.Background(), dsn, 4, 1, time.Minute)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewRecordStore(pool)
}

func TestRecordStore_Integration(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	id := "it-" + uuid.NewString()

	require.NoError(t, s.PutOne(ctx, repository.KindProjects, repository.Document{
		"id": id, "authorId": "bob", "title": "Garage",
		"applications": []any{}, "acceptedUsers": []any{}, "rejectedUsers": []any{},
	}))
	require.NoError(t, s.PatchOne(ctx, repository.KindProjects, repository.Document{
		"id": id, "applications": []any{}, "acceptedUsers": []any{"alice"},
	}))

	docs, err := s.LoadAll(ctx, repository.KindProjects)
	require.NoError(t, err)

	var found repository.Document
	for _, d := range docs {
		if d.ID() == id {
			found = d
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "Garage", found["title"])
	assert.Equal(t, []any{"alice"}, found["acceptedUsers"])

	err = s.PatchOne(ctx, repository.KindProjects, repository.Document{"id": "missing-" + id})
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}
