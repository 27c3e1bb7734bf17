package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WelderFernandes/event-ticket/internal/domain/ticket"
)

func TestStatsCache(t *testing.T) {
	client := newTestClient(t)
	defer client.Close()

	ctx := context.Background()
	cache := NewStatsCache(client)

	t.Run("保存した集計を取得できる", func(t *testing.T) {
		stats := &ticket.Stats{Total: 10, Active: 7, Used: 2, Cancelled: 1}
		require.NoError(t, cache.SetStats(ctx, "cache-event-1", stats, 30*time.Second))
		defer cache.Invalidate(ctx, "cache-event-1")

		got, err := cache.GetStats(ctx, "cache-event-1")
		require.NoError(t, err)
		assert.Equal(t, stats, got)
	})

	t.Run("存在しないキーはErrCacheMiss", func(t *testing.T) {
		_, err := cache.GetStats(ctx, "cache-event-missing")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("無効化後はErrCacheMiss", func(t *testing.T) {
		stats := &ticket.Stats{Total: 1, Active: 1}
		require.NoError(t, cache.SetStats(ctx, "cache-event-2", stats, 30*time.Second))
		require.NoError(t, cache.Invalidate(ctx, "cache-event-2"))

		_, err := cache.GetStats(ctx, "cache-event-2")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("TTLが切れるとErrCacheMiss", func(t *testing.T) {
		stats := &ticket.Stats{Total: 1}
		require.NoError(t, cache.SetStats(ctx, "cache-event-3", stats, 100*time.Millisecond))

		time.Sleep(200 * time.Millisecond)

		_, err := cache.GetStats(ctx, "cache-event-3")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
