package participant

import (
	"context"

	"github.com/WelderFernandes/event-ticket/internal/domain/transaction"
)

// Repository は参加者リポジトリのインターフェース
type Repository interface {
	// Create は新しい参加者を作成する（トランザクション必須）
	// (email, event_id) が重複する場合は ErrAlreadyRegistered を返す
	Create(ctx context.Context, tx transaction.Tx, p *Participant) error

	// GetByID はIDから参加者を取得する
	GetByID(ctx context.Context, id string) (*Participant, error)

	// GetByEmailAndEventID はメールアドレスとイベントIDから参加者を取得する
	GetByEmailAndEventID(ctx context.Context, email, eventID string) (*Participant, error)

	// ListByEventID はイベントの参加者一覧を取得する
	ListByEventID(ctx context.Context, eventID string, limit, offset int) ([]*Participant, error)
}
