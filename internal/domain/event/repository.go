package event

import (
	"context"
	"time"
)

// Repository はイベントリポジトリのインターフェース
type Repository interface {
	// Create は新しいイベントを作成する
	Create(ctx context.Context, event *Event) error

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id string) (*Event, error)

	// List はイベント一覧を取得する（作成日時の降順）
	List(ctx context.Context, limit, offset int) ([]*Event, error)

	// DeactivateFinished は開催日時を過ぎたアクティブなイベントを非アクティブにし、件数を返す
	DeactivateFinished(ctx context.Context, now time.Time) (int, error)
}
