//go:build integration
// +build integration

package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WelderFernandes/event-ticket/internal/domain/ticket"
)

// TestScenario_FullTicketFlow はチケット発行から入場までの完全なフローをテストします
// イベント作成 → 発行 → 集計確認 → 検証 → 再検証拒否
func TestScenario_FullTicketFlow(t *testing.T) {
	ticketService, eventService, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("完全なチケットフロー", func(t *testing.T) {
		// 1. イベント作成
		max := 100
		ev, err := eventService.CreateEvent(ctx, CreateEventInput{
			Title:       "社内テックカンファレンス2026",
			Description: "年次の技術発表会",
			Date:        time.Now().Add(30 * 24 * time.Hour),
			Location:    "本社ホール",
			MaxTickets:  &max,
			OrganizerID: "organizer-1",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, ev.ID)

		// 2. チケット発行
		out, err := ticketService.IssueTicket(ctx, IssueTicketInput{
			EventID: ev.ID,
			Name:    "山田太郎",
			Email:   "taro@example.com",
			Phone:   "090-1234-5678",
		})
		require.NoError(t, err)
		assert.Equal(t, ticket.StatusActive, out.Ticket.Ticket.Status)
		assert.Regexp(t, `^TK-`, out.Ticket.Ticket.TicketNumber)
		assert.Regexp(t, `^QR-`, out.Ticket.Ticket.QRCode)
		assert.Contains(t, out.QRImage, "data:image/png;base64,")

		// 3. 集計確認
		stats, err := ticketService.GetTicketStats(ctx, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Total)
		assert.Equal(t, 1, stats.Active)
		assert.Equal(t, 0, stats.Used)

		// 4. ゲートで検証
		result, err := ticketService.ValidateTicket(ctx, out.Ticket.Ticket.QRCode)
		require.NoError(t, err)
		assert.True(t, result.OK)
		assert.Equal(t, ResultValidated, result.Code)
		require.NotNil(t, result.UsedAt)
		firstUsedAt := *result.UsedAt

		// 5. 2回目の検証は拒否され、最初の使用日時が返る
		result, err = ticketService.ValidateTicket(ctx, out.Ticket.Ticket.QRCode)
		require.NoError(t, err)
		assert.False(t, result.OK)
		assert.Equal(t, ResultAlreadyUsed, result.Code)
		require.NotNil(t, result.UsedAt)
		assert.WithinDuration(t, firstUsedAt, *result.UsedAt, time.Second)

		// 6. 集計が更新されている
		stats, err = ticketService.GetTicketStats(ctx, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Used)
	})
}

// TestScenario_UnlimitedEvent は上限なしイベントの大量発行シナリオ
func TestScenario_UnlimitedEvent(t *testing.T) {
	if testing.Short() {
		t.Skip("shortモードではスキップ")
	}

	ticketService, eventService, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("上限なしイベントに1000枚発行できる", func(t *testing.T) {
		ev, err := eventService.CreateEvent(ctx, CreateEventInput{
			Title:       "大規模フェス",
			Date:        time.Now().Add(60 * 24 * time.Hour),
			OrganizerID: "organizer-1",
		})
		require.NoError(t, err)

		const numTickets = 1000
		for i := 0; i < numTickets; i++ {
			_, err := ticketService.IssueTicket(ctx, IssueTicketInput{
				EventID: ev.ID,
				Name:    fmt.Sprintf("参加者%04d", i),
				Email:   fmt.Sprintf("guest%04d@example.com", i),
			})
			require.NoError(t, err)
		}

		stats, err := ticketService.GetTicketStats(ctx, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, numTickets, stats.Total)
		assert.Equal(t, numTickets, stats.Active)
	})
}

// TestScenario_NotFoundAndInvalidQR は不正なQRコードの検証シナリオ
func TestScenario_NotFoundAndInvalidQR(t *testing.T) {
	ticketService, _, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("存在しないQRコードはnot_found", func(t *testing.T) {
		result, err := ticketService.ValidateTicket(ctx, "QR-UNKNOWN-XXXXXXXXXX")
		require.NoError(t, err)
		assert.False(t, result.OK)
		assert.Equal(t, ResultNotFound, result.Code)
	})

	t.Run("部分一致では検証できない", func(t *testing.T) {
		// 前方一致や部分一致は不可（完全一致のみ）
		result, err := ticketService.ValidateTicket(ctx, "QR-")
		require.NoError(t, err)
		assert.Equal(t, ResultNotFound, result.Code)
	})
}
