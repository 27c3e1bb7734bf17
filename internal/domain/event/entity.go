package event

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event はイベントエンティティを表す
type Event struct {
	ID          string
	Title       string
	Description string
	Date        time.Time
	Location    string
	MaxTickets  *int // nilの場合は発行数無制限
	Price       *decimal.Decimal
	Active      bool
	OrganizerID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewEvent は新しいイベントを作成する
func NewEvent(title, description, location, organizerID string, date time.Time, maxTickets *int, price *decimal.Decimal) *Event {
	now := time.Now()
	return &Event{
		Title:       title,
		Description: description,
		Date:        date,
		Location:    location,
		MaxTickets:  maxTickets,
		Price:       price,
		Active:      true,
		OrganizerID: organizerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasTicketLimit は発行数上限が設定されているかを返す
func (e *Event) HasTicketLimit() bool {
	return e.MaxTickets != nil
}

// Validate はイベントの検証を行う
func (e *Event) Validate() error {
	if e.Title == "" {
		return ErrEventTitleRequired
	}
	if e.Date.IsZero() {
		return ErrEventDateRequired
	}
	if e.MaxTickets != nil && *e.MaxTickets <= 0 {
		return ErrInvalidMaxTickets
	}
	if e.Price != nil && e.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}
