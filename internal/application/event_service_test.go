package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/WelderFernandes/event-ticket/internal/domain/event"
)

func TestEventService_CreateEvent(t *testing.T) {
	t.Run("正常にイベントが作成される", func(t *testing.T) {
		eventRepo := new(MockEventRepository)
		svc := NewEventService(eventRepo)

		eventRepo.On("Create", mock.Anything, mock.AnythingOfType("*event.Event")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*event.Event).ID = "event-1"
			}).Return(nil)

		price := decimal.RequireFromString("1500.00")
		e, err := svc.CreateEvent(context.Background(), CreateEventInput{
			Title:       "テックカンファレンス",
			Date:        time.Now().Add(24 * time.Hour),
			MaxTickets:  intPtr(300),
			Price:       &price,
			OrganizerID: "organizer-1",
		})

		require.NoError(t, err)
		assert.Equal(t, "event-1", e.ID)
		assert.True(t, e.Active)
		eventRepo.AssertExpectations(t)
	})

	t.Run("タイトル未指定はバリデーションエラー", func(t *testing.T) {
		eventRepo := new(MockEventRepository)
		svc := NewEventService(eventRepo)

		_, err := svc.CreateEvent(context.Background(), CreateEventInput{
			Title:       "",
			Date:        time.Now(),
			OrganizerID: "organizer-1",
		})

		assert.ErrorIs(t, err, event.ErrEventTitleRequired)
		eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("上限0はバリデーションエラー", func(t *testing.T) {
		eventRepo := new(MockEventRepository)
		svc := NewEventService(eventRepo)

		_, err := svc.CreateEvent(context.Background(), CreateEventInput{
			Title:       "カンファレンス",
			Date:        time.Now(),
			MaxTickets:  intPtr(0),
			OrganizerID: "organizer-1",
		})

		assert.ErrorIs(t, err, event.ErrInvalidMaxTickets)
	})
}

func TestEventService_GetEvent(t *testing.T) {
	t.Run("存在しないイベントはエラー", func(t *testing.T) {
		eventRepo := new(MockEventRepository)
		svc := NewEventService(eventRepo)

		eventRepo.On("GetByID", mock.Anything, "missing").Return(nil, event.ErrEventNotFound)

		_, err := svc.GetEvent(context.Background(), "missing")
		assert.ErrorIs(t, err, event.ErrEventNotFound)
	})
}

func TestEventService_ListEvents(t *testing.T) {
	t.Run("limitのデフォルトと上限が適用される", func(t *testing.T) {
		eventRepo := new(MockEventRepository)
		svc := NewEventService(eventRepo)

		eventRepo.On("List", mock.Anything, 20, 0).Return([]*event.Event{}, nil).Once()
		_, err := svc.ListEvents(context.Background(), 0, -1)
		require.NoError(t, err)

		eventRepo.On("List", mock.Anything, 100, 0).Return([]*event.Event{}, nil).Once()
		_, err = svc.ListEvents(context.Background(), 1000, 0)
		require.NoError(t, err)

		eventRepo.AssertExpectations(t)
	})
}

func TestEventService_DeactivateFinishedEvents(t *testing.T) {
	eventRepo := new(MockEventRepository)
	svc := NewEventService(eventRepo)

	eventRepo.On("DeactivateFinished", mock.Anything, mock.AnythingOfType("time.Time")).Return(3, nil)

	count, err := svc.DeactivateFinishedEvents(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
