package helpers

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRedis(t *testing.T) {
	ctx := context.Background()

	t.Run("empty address disables redis", func(t *testing.T) {
		rdb, err := ConnectRedis(ctx, "", "", 0)
		require.NoError(t, err)
		assert.Nil(t, rdb)
	})

	t.Run("pings server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb, err := ConnectRedis(ctx, mr.Addr(), "", 0)
		require.NoError(t, err)
		require.NotNil(t, rdb)
		_ = rdb.Close()
	})

	t.Run("unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()
		_, err := ConnectRedis(ctx, addr, "", 0)
		assert.Error(t, err)
	})
}
