package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/WelderFernandes/event-ticket/internal/domain/ticket"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// StatsCache はイベントごとのチケット集計のキャッシュを管理する
type StatsCache struct {
	client *redis.Client
}

// NewStatsCache は新しいStatsCacheインスタンスを作成する
func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{client: client}
}

// GetStats はイベントのチケット集計をキャッシュから取得する
func (c *StatsCache) GetStats(ctx context.Context, eventID string) (*ticket.Stats, error) {
	key := c.statsKey(eventID)
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	var stats ticket.Stats
	if err := json.Unmarshal(val, &stats); err != nil {
		return nil, fmt.Errorf("キャッシュの復元に失敗: %w", err)
	}
	return &stats, nil
}

// SetStats はイベントのチケット集計をキャッシュに保存する
func (c *StatsCache) SetStats(ctx context.Context, eventID string, stats *ticket.Stats, ttl time.Duration) error {
	val, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("キャッシュの変換に失敗: %w", err)
	}
	if err := c.client.Set(ctx, c.statsKey(eventID), val, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はイベントのキャッシュを無効化する
func (c *StatsCache) Invalidate(ctx context.Context, eventID string) error {
	if err := c.client.Del(ctx, c.statsKey(eventID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *StatsCache) statsKey(eventID string) string {
	return fmt.Sprintf("tickets:stats:%s", eventID)
}
