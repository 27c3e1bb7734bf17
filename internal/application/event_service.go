package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/WelderFernandes/event-ticket/internal/domain/event"
	"github.com/WelderFernandes/event-ticket/internal/pkg/logger"
)

type EventService struct {
	eventRepo event.Repository
}

func NewEventService(eventRepo event.Repository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

type CreateEventInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	MaxTickets  *int
	Price       *decimal.Decimal
	OrganizerID string
}

func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*event.Event, error) {
	e := event.NewEvent(input.Title, input.Description, input.Location, input.OrganizerID, input.Date, input.MaxTickets, input.Price)
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	logger.Info("イベントを作成", zap.String("event_id", e.ID), zap.String("title", e.Title))
	return e, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.eventRepo.List(ctx, limit, offset)
}

// DeactivateFinishedEvents は開催日時を過ぎたイベントを非アクティブにする
func (s *EventService) DeactivateFinishedEvents(ctx context.Context) (int, error) {
	return s.eventRepo.DeactivateFinished(ctx, time.Now())
}
