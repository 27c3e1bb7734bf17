//go:build integration
// +build integration

package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WelderFernandes/event-ticket/internal/config"
	"github.com/WelderFernandes/event-ticket/internal/domain/participant"
	"github.com/WelderFernandes/event-ticket/internal/domain/ticket"
	"github.com/WelderFernandes/event-ticket/internal/infrastructure/postgres"
	redisinfra "github.com/WelderFernandes/event-ticket/internal/infrastructure/redis"
)

func setupTestEnv(t *testing.T) (*TicketService, *EventService, func()) {
	cfg := config.Load()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		t.Skipf("DB接続エラー: %v", err)
	}

	redisClient := redisinfra.NewClient(&cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var lockManager *redisinfra.LockManager
	var statsCache *redisinfra.StatsCache
	if err := redisinfra.Ping(ctx, redisClient); err == nil {
		lockManager = redisinfra.NewLockManager(redisClient)
		statsCache = redisinfra.NewStatsCache(redisClient)
	}

	eventRepo := postgres.NewEventRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	txManager := postgres.NewTxManager(db)

	eventService := NewEventService(eventRepo)
	ticketService := NewTicketService(txManager, ticketRepo, participantRepo, eventRepo, lockManager, statsCache)

	cleanup := func() {
		db.Exec("DELETE FROM tickets")
		db.Exec("DELETE FROM participants")
		db.Exec("DELETE FROM events")
		redisClient.Close()
		db.Close()
	}

	return ticketService, eventService, cleanup
}

func TestConcurrentIssueWithCapacity(t *testing.T) {
	ticketService, eventService, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()

	// 上限5枚のイベント
	max := 5
	ev, err := eventService.CreateEvent(ctx, CreateEventInput{
		Title:       "上限テストイベント",
		Date:        time.Now().Add(24 * time.Hour),
		MaxTickets:  &max,
		OrganizerID: "organizer-1",
	})
	require.NoError(t, err)

	t.Run("20並行リクエストで上限ちょうどまで発行される", func(t *testing.T) {
		const numGoroutines = 20
		var successCount int32
		var capacityCount int32
		var otherCount int32
		var wg sync.WaitGroup

		for i := 0; i < numGoroutines; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				_, err := ticketService.IssueTicket(ctx, IssueTicketInput{
					EventID: ev.ID,
					Name:    fmt.Sprintf("参加者%d", n),
					Email:   fmt.Sprintf("user%d@example.com", n),
				})
				switch {
				case err == nil:
					atomic.AddInt32(&successCount, 1)
				case err == ticket.ErrTicketLimitReached:
					atomic.AddInt32(&capacityCount, 1)
				default:
					atomic.AddInt32(&otherCount, 1)
				}
			}(i)
		}
		wg.Wait()

		// 上限を1枚も超えない
		assert.Equal(t, int32(max), successCount, "発行成功は上限数と一致")
		t.Logf("成功: %d, 上限: %d, その他: %d", successCount, capacityCount, otherCount)

		stats, err := ticketService.GetTicketStats(ctx, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, max, stats.Total)
	})
}

func TestConcurrentValidation(t *testing.T) {
	ticketService, eventService, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()

	ev, err := eventService.CreateEvent(ctx, CreateEventInput{
		Title:       "検証テストイベント",
		Date:        time.Now().Add(24 * time.Hour),
		OrganizerID: "organizer-1",
	})
	require.NoError(t, err)

	out, err := ticketService.IssueTicket(ctx, IssueTicketInput{
		EventID: ev.ID,
		Name:    "山田太郎",
		Email:   "taro@example.com",
	})
	require.NoError(t, err)
	qrCode := out.Ticket.Ticket.QRCode

	t.Run("10並行検証で成功は1つだけ", func(t *testing.T) {
		const numGoroutines = 10
		var validatedCount int32
		var alreadyUsedCount int32
		var wg sync.WaitGroup

		for i := 0; i < numGoroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				result, err := ticketService.ValidateTicket(ctx, qrCode)
				require.NoError(t, err)
				if result.OK {
					atomic.AddInt32(&validatedCount, 1)
				} else if result.Code == ResultAlreadyUsed {
					atomic.AddInt32(&alreadyUsedCount, 1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), validatedCount, "検証成功は1つだけ")
		assert.Equal(t, int32(numGoroutines-1), alreadyUsedCount, "残りは全てalready_used")
	})

	t.Run("重複登録は拒否される", func(t *testing.T) {
		_, err := ticketService.IssueTicket(ctx, IssueTicketInput{
			EventID: ev.ID,
			Name:    "山田太郎",
			Email:   "taro@example.com",
		})
		assert.ErrorIs(t, err, participant.ErrAlreadyRegistered)
	})
}
