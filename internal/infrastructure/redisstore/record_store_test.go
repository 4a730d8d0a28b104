package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/teambuilder/internal/domain/repository"
)

func setupTestRedis(t *testing.T) (*RecordStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRecordStore(client), mr
}

func TestRecordStore_PutAndLoad(t *testing.T) {
	ctx := context.Background()
	s, mr := setupTestRedis(t)

	t.Run("keeps insertion order", func(t *testing.T) {
		for _, id := range []string{"p3", "p1", "p2"} {
			require.NoError(t, s.PutOne(ctx, repository.KindProjects, repository.Document{"id": id, "title": "T" + id}))
		}
		docs, err := s.LoadAll(ctx, repository.KindProjects)
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, "p3", docs[0].ID())
		assert.Equal(t, "p1", docs[1].ID())
		assert.Equal(t, "p2", docs[2].ID())
	})

	t.Run("replacing does not duplicate the order entry", func(t *testing.T) {
		require.NoError(t, s.PutOne(ctx, repository.KindProjects, repository.Document{"id": "p1", "title": "changed"}))
		docs, err := s.LoadAll(ctx, repository.KindProjects)
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, "changed", docs[1]["title"])

		ids, err := mr.List("teambuilder:order:projects")
		require.NoError(t, err)
		assert.Equal(t, []string{"p3", "p1", "p2"}, ids)
	})
}

func TestRecordStore_PatchOne(t *testing.T) {
	ctx := context.Background()
	s, _ := setupTestRedis(t)

	require.NoError(t, s.PutOne(ctx, repository.KindUsers, repository.Document{
		"id": "u1", "name": "Alice", "description": "", "celebratedProjects": []any{},
	}))

	t.Run("merges fields", func(t *testing.T) {
		require.NoError(t, s.PatchOne(ctx, repository.KindUsers, repository.Document{"id": "u1", "celebratedProjects": []any{"p1"}}))
		docs, err := s.LoadAll(ctx, repository.KindUsers)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Alice", docs[0]["name"])
		assert.Equal(t, []any{"p1"}, docs[0]["celebratedProjects"])
	})

	t.Run("missing record", func(t *testing.T) {
		err := s.PatchOne(ctx, repository.KindUsers, repository.Document{"id": "ghost"})
		assert.ErrorIs(t, err, repository.ErrRecordNotFound)
	})
}

func TestRecordStore_LoadEmpty(t *testing.T) {
	s, _ := setupTestRedis(t)
	docs, err := s.LoadAll(context.Background(), repository.KindUsers)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
