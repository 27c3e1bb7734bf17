package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/WelderFernandes/event-ticket/internal/domain/event"
)

// eventRow はDBの行を表す構造体
type eventRow struct {
	ID          string              `db:"id"`
	Title       string              `db:"title"`
	Description *string             `db:"description"`
	Date        time.Time           `db:"date"`
	Location    *string             `db:"location"`
	MaxTickets  *int                `db:"max_tickets"`
	Price       decimal.NullDecimal `db:"price"`
	Active      bool                `db:"active"`
	OrganizerID string              `db:"organizer_id"`
	CreatedAt   time.Time           `db:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at"`
}

// toEntity はeventRowをEventエンティティに変換する
func (r *eventRow) toEntity() *event.Event {
	var desc, location string
	if r.Description != nil {
		desc = *r.Description
	}
	if r.Location != nil {
		location = *r.Location
	}
	var price *decimal.Decimal
	if r.Price.Valid {
		p := r.Price.Decimal
		price = &p
	}
	return &event.Event{
		ID:          r.ID,
		Title:       r.Title,
		Description: desc,
		Date:        r.Date,
		Location:    location,
		MaxTickets:  r.MaxTickets,
		Price:       price,
		Active:      r.Active,
		OrganizerID: r.OrganizerID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const eventColumns = `id, title, description, date, location, max_tickets, price, active, organizer_id, created_at, updated_at`

// EventRepository はイベントリポジトリのPostgreSQL実装
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository はEventRepositoryを作成する
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create は新しいイベントを作成する
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	query := `
		INSERT INTO events (title, description, date, location, max_tickets, price, active, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var desc, location *string
	if e.Description != "" {
		desc = &e.Description
	}
	if e.Location != "" {
		location = &e.Location
	}
	var price decimal.NullDecimal
	if e.Price != nil {
		price = decimal.NewNullDecimal(*e.Price)
	}

	err := r.db.QueryRowContext(ctx, query,
		e.Title, desc, e.Date, location, e.MaxTickets, price, e.Active, e.OrganizerID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDからイベントを取得する
func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var row eventRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// List はイベント一覧を取得する
func (r *EventRepository) List(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	var rows []eventRow
	err := r.db.SelectContext(ctx, &rows, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗しました: %w", err)
	}

	events := make([]*event.Event, len(rows))
	for i, row := range rows {
		events[i] = row.toEntity()
	}
	return events, nil
}

// DeactivateFinished は開催日時を過ぎたアクティブなイベントを非アクティブにする
func (r *EventRepository) DeactivateFinished(ctx context.Context, now time.Time) (int, error) {
	query := `UPDATE events SET active = false, updated_at = $1 WHERE active = true AND date < $1`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("イベント非アクティブ化に失敗しました: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	return int(rows), nil
}

// インターフェースを満たしているか確認
var _ event.Repository = (*EventRepository)(nil)
