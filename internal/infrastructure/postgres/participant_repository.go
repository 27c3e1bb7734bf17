package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/WelderFernandes/event-ticket/internal/domain/participant"
	"github.com/WelderFernandes/event-ticket/internal/domain/transaction"
)

type participantRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     *string   `db:"phone"`
	EventID   string    `db:"event_id"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *participantRow) toEntity() *participant.Participant {
	var phone string
	if r.Phone != nil {
		phone = *r.Phone
	}
	return &participant.Participant{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     phone,
		EventID:   r.EventID,
		CreatedAt: r.CreatedAt,
	}
}

// ParticipantRepository は参加者リポジトリのPostgreSQL実装
type ParticipantRepository struct {
	db *sqlx.DB
}

// NewParticipantRepository はParticipantRepositoryを作成する
func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Create は新しい参加者を作成する
// participants テーブルの UNIQUE(email, event_id) 制約が重複登録を防ぐ
func (r *ParticipantRepository) Create(ctx context.Context, tx transaction.Tx, p *participant.Participant) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}

	query := `
		INSERT INTO participants (name, email, phone, event_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var phone *string
	if p.Phone != "" {
		phone = &p.Phone
	}

	err := sqlxTx.QueryRowContext(ctx, query, p.Name, p.Email, phone, p.EventID, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return participant.ErrAlreadyRegistered
		}
		return fmt.Errorf("参加者作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDから参加者を取得する
func (r *ParticipantRepository) GetByID(ctx context.Context, id string) (*participant.Participant, error) {
	query := `SELECT id, name, email, phone, event_id, created_at FROM participants WHERE id = $1`

	var row participantRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, participant.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("参加者取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetByEmailAndEventID はメールアドレスとイベントIDから参加者を取得する
func (r *ParticipantRepository) GetByEmailAndEventID(ctx context.Context, email, eventID string) (*participant.Participant, error) {
	query := `SELECT id, name, email, phone, event_id, created_at FROM participants WHERE email = $1 AND event_id = $2`

	var row participantRow
	if err := r.db.GetContext(ctx, &row, query, email, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, participant.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("参加者取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// ListByEventID はイベントの参加者一覧を取得する
func (r *ParticipantRepository) ListByEventID(ctx context.Context, eventID string, limit, offset int) ([]*participant.Participant, error) {
	query := `
		SELECT id, name, email, phone, event_id, created_at
		FROM participants
		WHERE event_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var rows []participantRow
	if err := r.db.SelectContext(ctx, &rows, query, eventID, limit, offset); err != nil {
		return nil, fmt.Errorf("参加者一覧取得に失敗しました: %w", err)
	}

	participants := make([]*participant.Participant, len(rows))
	for i, row := range rows {
		participants[i] = row.toEntity()
	}
	return participants, nil
}

var _ participant.Repository = (*ParticipantRepository)(nil)
