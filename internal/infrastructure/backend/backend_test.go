package backend

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/teambuilder/config"
	"github.com/oksasatya/teambuilder/internal/domain/repository"
	"github.com/oksasatya/teambuilder/internal/infrastructure/localstore"
	"github.com/oksasatya/teambuilder/internal/infrastructure/memory"
	"github.com/oksasatya/teambuilder/internal/infrastructure/redisstore"
)

func TestOpenNamed(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cfg := &config.Config{DataDir: t.TempDir(), RedisAddr: mr.Addr()}

	t.Run("local is the default", func(t *testing.T) {
		h, err := OpenNamed(ctx, "", cfg, nil)
		require.NoError(t, err)
		defer h.Close()
		assert.Equal(t, Local, h.Name)
		assert.IsType(t, &localstore.RecordStore{}, h.Store)
	})

	t.Run("memory", func(t *testing.T) {
		h, err := OpenNamed(ctx, "Memory", cfg, nil)
		require.NoError(t, err)
		defer h.Close()
		assert.IsType(t, &memory.RecordStore{}, h.Store)
	})

	t.Run("redis", func(t *testing.T) {
		h, err := OpenNamed(ctx, Redis, cfg, nil)
		require.NoError(t, err)
		defer h.Close()
		assert.IsType(t, &redisstore.RecordStore{}, h.Store)

		require.NoError(t, h.Store.PutOne(ctx, repository.KindUsers, repository.Document{"id": "u1", "name": "Alice"}))
		docs, err := h.Store.LoadAll(ctx, repository.KindUsers)
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("misconfigured", func(t *testing.T) {
		_, err := OpenNamed(ctx, Redis, &config.Config{}, nil)
		assert.Error(t, err)
		_, err = OpenNamed(ctx, Firestore, &config.Config{}, nil)
		assert.Error(t, err)
		_, err = OpenNamed(ctx, "cassandra", cfg, nil)
		assert.ErrorContains(t, err, "unknown storage backend")
	})
}

func TestOpen_UsesConfig(t *testing.T) {
	h, err := Open(context.Background(), &config.Config{StorageBackend: Memory}, nil)
	require.NoError(t, err)
	h.Close()
	assert.Equal(t, Memory, h.Name)
}
