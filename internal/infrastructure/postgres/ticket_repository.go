package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/WelderFernandes/event-ticket/internal/domain/event"
	"github.com/WelderFernandes/event-ticket/internal/domain/participant"
	"github.com/WelderFernandes/event-ticket/internal/domain/ticket"
	"github.com/WelderFernandes/event-ticket/internal/domain/transaction"
)

type ticketRow struct {
	ID            string     `db:"id"`
	TicketNumber  string     `db:"ticket_number"`
	QRCode        string     `db:"qr_code"`
	Status        string     `db:"status"`
	ParticipantID string     `db:"participant_id"`
	EventID       string     `db:"event_id"`
	UsedAt        *time.Time `db:"used_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func (r *ticketRow) toEntity() *ticket.Ticket {
	return &ticket.Ticket{
		ID:            r.ID,
		TicketNumber:  r.TicketNumber,
		QRCode:        r.QRCode,
		Status:        ticket.Status(r.Status),
		ParticipantID: r.ParticipantID,
		EventID:       r.EventID,
		UsedAt:        r.UsedAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// detailRow はチケット・参加者・イベントを結合した行
type detailRow struct {
	ticketRow
	PName      string              `db:"p_name"`
	PEmail     string              `db:"p_email"`
	PPhone     *string             `db:"p_phone"`
	PCreatedAt time.Time           `db:"p_created_at"`
	ETitle     string              `db:"e_title"`
	EDesc      *string             `db:"e_description"`
	EDate      time.Time           `db:"e_date"`
	ELocation  *string             `db:"e_location"`
	EMax       *int                `db:"e_max_tickets"`
	EPrice     decimal.NullDecimal `db:"e_price"`
	EActive    bool                `db:"e_active"`
	EOrganizer string              `db:"e_organizer_id"`
	ECreatedAt time.Time           `db:"e_created_at"`
	EUpdatedAt time.Time           `db:"e_updated_at"`
}

func (r *detailRow) toDetail() *ticket.Detail {
	var phone, desc, location string
	if r.PPhone != nil {
		phone = *r.PPhone
	}
	if r.EDesc != nil {
		desc = *r.EDesc
	}
	if r.ELocation != nil {
		location = *r.ELocation
	}
	var price *decimal.Decimal
	if r.EPrice.Valid {
		p := r.EPrice.Decimal
		price = &p
	}
	return &ticket.Detail{
		Ticket: r.ticketRow.toEntity(),
		Participant: &participant.Participant{
			ID:        r.ParticipantID,
			Name:      r.PName,
			Email:     r.PEmail,
			Phone:     phone,
			EventID:   r.EventID,
			CreatedAt: r.PCreatedAt,
		},
		Event: &event.Event{
			ID:          r.EventID,
			Title:       r.ETitle,
			Description: desc,
			Date:        r.EDate,
			Location:    location,
			MaxTickets:  r.EMax,
			Price:       price,
			Active:      r.EActive,
			OrganizerID: r.EOrganizer,
			CreatedAt:   r.ECreatedAt,
			UpdatedAt:   r.EUpdatedAt,
		},
	}
}

const detailSelect = `
	SELECT t.id, t.ticket_number, t.qr_code, t.status, t.participant_id, t.event_id,
	       t.used_at, t.created_at, t.updated_at,
	       p.name AS p_name, p.email AS p_email, p.phone AS p_phone, p.created_at AS p_created_at,
	       e.title AS e_title, e.description AS e_description, e.date AS e_date,
	       e.location AS e_location, e.max_tickets AS e_max_tickets, e.price AS e_price,
	       e.active AS e_active, e.organizer_id AS e_organizer_id,
	       e.created_at AS e_created_at, e.updated_at AS e_updated_at
	FROM tickets t
	JOIN participants p ON p.id = t.participant_id
	JOIN events e ON e.id = t.event_id
`

// TicketRepository はチケットリポジトリのPostgreSQL実装
type TicketRepository struct {
	db *sqlx.DB
}

// NewTicketRepository はTicketRepositoryを作成する
func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create は新しいチケットを作成する
// イベント行をロックした上で発行数上限付きのINSERTを行うため、
// 並行発行が上限チェックをすり抜けて上限を超えることはない
func (r *TicketRepository) Create(ctx context.Context, tx transaction.Tx, t *ticket.Ticket) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}

	// 同一イベントへの並行発行を直列化
	if _, err := sqlxTx.ExecContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, t.EventID); err != nil {
		return fmt.Errorf("イベント行ロックに失敗しました: %w", err)
	}

	query := `
		INSERT INTO tickets (ticket_number, qr_code, status, participant_id, event_id, created_at, updated_at)
		SELECT $1, $2, $3, $4, e.id, $6, $7
		FROM events e
		WHERE e.id = $5
		  AND (e.max_tickets IS NULL OR
		       (SELECT COUNT(*) FROM tickets WHERE event_id = e.id) < e.max_tickets)
		RETURNING id
	`
	err := sqlxTx.QueryRowContext(ctx, query,
		t.TicketNumber, t.QRCode, string(t.Status), t.ParticipantID, t.EventID, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ticket.ErrTicketLimitReached
		}
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return fmt.Errorf("チケットコードが重複しました: %w", err)
		}
		return fmt.Errorf("チケット作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDからチケットを取得する
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*ticket.Ticket, error) {
	query := `SELECT id, ticket_number, qr_code, status, participant_id, event_id, used_at, created_at, updated_at FROM tickets WHERE id = $1`

	var row ticketRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, fmt.Errorf("チケット取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetDetailByQRCode はQRコードから参加者・イベント込みのチケットを取得する
func (r *TicketRepository) GetDetailByQRCode(ctx context.Context, qrCode string) (*ticket.Detail, error) {
	query := detailSelect + ` WHERE t.qr_code = $1`

	var row detailRow
	if err := r.db.GetContext(ctx, &row, query, qrCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, fmt.Errorf("チケット取得に失敗しました: %w", err)
	}
	return row.toDetail(), nil
}

// ListDetails はチケット一覧を参加者・イベント込みで取得する
func (r *TicketRepository) ListDetails(ctx context.Context, eventID string, limit, offset int) ([]*ticket.Detail, error) {
	var rows []detailRow
	var err error
	if eventID != "" {
		query := detailSelect + ` WHERE t.event_id = $1 ORDER BY t.created_at DESC LIMIT $2 OFFSET $3`
		err = r.db.SelectContext(ctx, &rows, query, eventID, limit, offset)
	} else {
		query := detailSelect + ` ORDER BY t.created_at DESC LIMIT $1 OFFSET $2`
		err = r.db.SelectContext(ctx, &rows, query, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("チケット一覧取得に失敗しました: %w", err)
	}

	details := make([]*ticket.Detail, len(rows))
	for i := range rows {
		details[i] = rows[i].toDetail()
	}
	return details, nil
}

// CountByEventID はイベントの発行済みチケット数を返す
func (r *TicketRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM tickets WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, fmt.Errorf("チケット数取得に失敗しました: %w", err)
	}
	return count, nil
}

// MarkUsed はチケットをACTIVEからUSEDに条件付きで更新する
// WHERE句で状態を確認するため、同一チケットへの並行検証で
// この更新に成功するのは高々1リクエストのみ
func (r *TicketRepository) MarkUsed(ctx context.Context, id string, usedAt time.Time) error {
	query := `UPDATE tickets SET status = 'USED', used_at = $2, updated_at = $2 WHERE id = $1 AND status = 'ACTIVE'`

	result, err := r.db.ExecContext(ctx, query, id, usedAt)
	if err != nil {
		return fmt.Errorf("チケット更新に失敗しました: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rows == 0 {
		return ticket.ErrTicketNotActive
	}
	return nil
}

// StatsByEventID はイベントのチケット集計を返す
func (r *TicketRepository) StatsByEventID(ctx context.Context, eventID string) (*ticket.Stats, error) {
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE status = 'ACTIVE') AS active,
		       COUNT(*) FILTER (WHERE status = 'USED') AS used,
		       COUNT(*) FILTER (WHERE status = 'CANCELLED') AS cancelled
		FROM tickets
		WHERE event_id = $1
	`

	var row struct {
		Total     int `db:"total"`
		Active    int `db:"active"`
		Used      int `db:"used"`
		Cancelled int `db:"cancelled"`
	}
	if err := r.db.GetContext(ctx, &row, query, eventID); err != nil {
		return nil, fmt.Errorf("チケット集計に失敗しました: %w", err)
	}
	return &ticket.Stats{
		Total:     row.Total,
		Active:    row.Active,
		Used:      row.Used,
		Cancelled: row.Cancelled,
	}, nil
}

var _ ticket.Repository = (*TicketRepository)(nil)
