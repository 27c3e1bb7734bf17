package ticket

import (
	"context"
	"time"

	"github.com/WelderFernandes/event-ticket/internal/domain/event"
	"github.com/WelderFernandes/event-ticket/internal/domain/participant"
	"github.com/WelderFernandes/event-ticket/internal/domain/transaction"
)

// Detail は参加者・イベント情報を含むチケットを表す
type Detail struct {
	Ticket      *Ticket
	Participant *participant.Participant
	Event       *event.Event
}

// Stats はイベントごとのチケット集計を表す
type Stats struct {
	Total     int
	Active    int
	Used      int
	Cancelled int
}

// Repository はチケットリポジトリのインターフェース
type Repository interface {
	// Create は新しいチケットを作成する（トランザクション必須）
	// イベントに発行上限がある場合、上限を超える挿入は ErrTicketLimitReached を返す
	Create(ctx context.Context, tx transaction.Tx, t *Ticket) error

	// GetByID はIDからチケットを取得する
	GetByID(ctx context.Context, id string) (*Ticket, error)

	// GetDetailByQRCode はQRコード（完全一致）から参加者・イベント込みのチケットを取得する
	GetDetailByQRCode(ctx context.Context, qrCode string) (*Detail, error)

	// ListDetails はチケット一覧を取得する（作成日時の降順）
	// eventID が空の場合は全イベントを対象とする
	ListDetails(ctx context.Context, eventID string, limit, offset int) ([]*Detail, error)

	// CountByEventID はイベントの発行済みチケット数を返す
	CountByEventID(ctx context.Context, eventID string) (int, error)

	// MarkUsed はチケットをACTIVEからUSEDに条件付きで更新する
	// 対象がACTIVEでない場合は ErrTicketNotActive を返す（更新なし）
	MarkUsed(ctx context.Context, id string, usedAt time.Time) error

	// StatsByEventID はイベントのチケット集計を返す
	StatsByEventID(ctx context.Context, eventID string) (*Stats, error)
}
