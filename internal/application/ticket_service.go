package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/WelderFernandes/event-ticket/internal/domain/event"
	"github.com/WelderFernandes/event-ticket/internal/domain/participant"
	"github.com/WelderFernandes/event-ticket/internal/domain/ticket"
	"github.com/WelderFernandes/event-ticket/internal/domain/transaction"
	redisinfra "github.com/WelderFernandes/event-ticket/internal/infrastructure/redis"
	"github.com/WelderFernandes/event-ticket/internal/pkg/logger"
	"github.com/WelderFernandes/event-ticket/internal/pkg/metrics"
	"github.com/WelderFernandes/event-ticket/internal/pkg/qrimage"
	"github.com/WelderFernandes/event-ticket/internal/pkg/ticketcode"
)

const statsCacheTTL = 30 * time.Second

type TicketService struct {
	txManager       transaction.Manager
	ticketRepo      ticket.Repository
	participantRepo participant.Repository
	eventRepo       event.Repository
	lockManager     *redisinfra.LockManager
	statsCache      *redisinfra.StatsCache
}

func NewTicketService(
	txManager transaction.Manager,
	tr ticket.Repository,
	pr participant.Repository,
	er event.Repository,
	lm *redisinfra.LockManager,
	cache *redisinfra.StatsCache,
) *TicketService {
	return &TicketService{
		txManager:       txManager,
		ticketRepo:      tr,
		participantRepo: pr,
		eventRepo:       er,
		lockManager:     lm,
		statsCache:      cache,
	}
}

type IssueTicketInput struct {
	EventID string
	Name    string
	Email   string
	Phone   string
}

type IssueTicketOutput struct {
	Ticket  *ticket.Detail
	QRImage string
}

// IssueTicket は参加者を登録しチケットを発行する
// チェック順: イベント存在 → 重複登録 → 発行上限 → 入力検証
// 参加者とチケットは1トランザクションで作成され、片方だけが残ることはない
func (s *TicketService) IssueTicket(ctx context.Context, input IssueTicketInput) (*IssueTicketOutput, error) {
	// 1. イベント存在確認
	ev, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			s.countIssue("not_found")
			return nil, err
		}
		s.countIssue("error")
		return nil, fmt.Errorf("イベント取得に失敗: %w", err)
	}

	// 同一イベントへの並行発行の競合を減らすための分散ロック
	// （正しさ自体はINSERT時の上限付き挿入とUNIQUE制約が保証する）
	if s.lockManager != nil {
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, "event:"+ev.ID, 10*time.Second, 3, 100*time.Millisecond)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				s.countIssue("lock_failed")
				return nil, fmt.Errorf("このイベントは他のリクエストを処理中です")
			}
			s.countIssue("error")
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	// 2. 重複登録確認
	if _, err := s.participantRepo.GetByEmailAndEventID(ctx, input.Email, input.EventID); err == nil {
		s.countIssue("duplicate")
		return nil, participant.ErrAlreadyRegistered
	} else if !errors.Is(err, participant.ErrParticipantNotFound) {
		s.countIssue("error")
		return nil, fmt.Errorf("重複登録チェックに失敗: %w", err)
	}

	// 3. 発行上限確認
	if ev.HasTicketLimit() {
		count, err := s.ticketRepo.CountByEventID(ctx, ev.ID)
		if err != nil {
			s.countIssue("error")
			return nil, fmt.Errorf("チケット数取得に失敗: %w", err)
		}
		if count >= *ev.MaxTickets {
			s.countIssue("capacity")
			return nil, ticket.ErrTicketLimitReached
		}
	}

	// 4. 入力検証
	p := participant.NewParticipant(input.Name, input.Email, input.Phone, input.EventID)
	if err := p.Validate(); err != nil {
		s.countIssue("invalid")
		return nil, err
	}

	// トランザクション: 参加者とチケットを不可分に作成
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		s.countIssue("error")
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.participantRepo.Create(ctx, tx, p); err != nil {
		if errors.Is(err, participant.ErrAlreadyRegistered) {
			s.countIssue("duplicate")
			return nil, err
		}
		s.countIssue("error")
		return nil, err
	}
	t := ticket.NewTicket(ticketcode.NewTicketNumber(), ticketcode.NewQRCode(), p.ID, ev.ID)
	if err := t.Validate(); err != nil {
		s.countIssue("error")
		return nil, err
	}
	if err := s.ticketRepo.Create(ctx, tx, t); err != nil {
		if errors.Is(err, ticket.ErrTicketLimitReached) {
			s.countIssue("capacity")
			return nil, err
		}
		s.countIssue("error")
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		s.countIssue("error")
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateStats(ctx, ev.ID)

	qrImage, err := qrimage.GenerateDataURL(t.QRCode)
	if err != nil {
		// チケット自体は発行済み。画像生成の失敗は致命ではない
		logger.Warn("QRコード画像生成に失敗", zap.String("ticket_id", t.ID), zap.Error(err))
	}

	s.countIssue("success")
	logger.Info("チケットを発行",
		zap.String("ticket_id", t.ID),
		zap.String("ticket_number", t.TicketNumber),
		zap.String("event_id", ev.ID),
	)

	return &IssueTicketOutput{
		Ticket: &ticket.Detail{
			Ticket:      t,
			Participant: p,
			Event:       ev,
		},
		QRImage: qrImage,
	}, nil
}

// ResultCode は検証結果の種別
type ResultCode string

const (
	ResultValidated   ResultCode = "validated"
	ResultAlreadyUsed ResultCode = "already_used"
	ResultCancelled   ResultCode = "cancelled"
	ResultNotFound    ResultCode = "not_found"
)

// ValidationResult はチケット検証の結果を表す
// 入場不可の結果もエラーではなく結果として返す（係員に表示するため）
type ValidationResult struct {
	OK      bool
	Code    ResultCode
	Message string
	Ticket  *ticket.Detail
	UsedAt  *time.Time
}

// ValidateTicket はQRコードからチケットを検証し、使用済みにする
// 同一チケットへの並行検証では高々1リクエストのみが成功結果を受け取る
func (s *TicketService) ValidateTicket(ctx context.Context, qrCode string) (*ValidationResult, error) {
	detail, err := s.ticketRepo.GetDetailByQRCode(ctx, qrCode)
	if err != nil {
		if errors.Is(err, ticket.ErrTicketNotFound) {
			s.countValidation(string(ResultNotFound))
			return &ValidationResult{
				OK:      false,
				Code:    ResultNotFound,
				Message: "チケットが見つかりません",
			}, nil
		}
		s.countValidation("error")
		return nil, fmt.Errorf("チケット取得に失敗: %w", err)
	}

	switch detail.Ticket.Status {
	case ticket.StatusUsed:
		s.countValidation(string(ResultAlreadyUsed))
		return s.alreadyUsedResult(detail), nil
	case ticket.StatusCancelled:
		s.countValidation(string(ResultCancelled))
		return &ValidationResult{
			OK:      false,
			Code:    ResultCancelled,
			Message: "チケットはキャンセルされています",
			Ticket:  detail,
		}, nil
	}

	now := time.Now()
	if err := s.ticketRepo.MarkUsed(ctx, detail.Ticket.ID, now); err != nil {
		if errors.Is(err, ticket.ErrTicketNotActive) {
			// 並行検証に敗れたケース。確定した used_at を読み直して返す
			refreshed, rerr := s.ticketRepo.GetDetailByQRCode(ctx, qrCode)
			if rerr != nil {
				s.countValidation("error")
				return nil, fmt.Errorf("チケット再取得に失敗: %w", rerr)
			}
			s.countValidation(string(ResultAlreadyUsed))
			return s.alreadyUsedResult(refreshed), nil
		}
		s.countValidation("error")
		return nil, fmt.Errorf("チケット更新に失敗: %w", err)
	}

	if err := detail.Ticket.Use(now); err != nil {
		// MarkUsed成功後のエンティティ遷移は失敗しない
		return nil, err
	}

	s.invalidateStats(ctx, detail.Ticket.EventID)
	s.countValidation(string(ResultValidated))
	logger.Info("チケットを検証",
		zap.String("ticket_id", detail.Ticket.ID),
		zap.String("event_id", detail.Ticket.EventID),
	)

	return &ValidationResult{
		OK:      true,
		Code:    ResultValidated,
		Message: "チケットを検証しました",
		Ticket:  detail,
		UsedAt:  detail.Ticket.UsedAt,
	}, nil
}

func (s *TicketService) alreadyUsedResult(detail *ticket.Detail) *ValidationResult {
	return &ValidationResult{
		OK:      false,
		Code:    ResultAlreadyUsed,
		Message: "チケットは既に使用されています",
		Ticket:  detail,
		UsedAt:  detail.Ticket.UsedAt,
	}
}

// ListTickets はチケット一覧を取得する（eventIDが空の場合は全件）
func (s *TicketService) ListTickets(ctx context.Context, eventID string, limit, offset int) ([]*ticket.Detail, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.ticketRepo.ListDetails(ctx, eventID, limit, offset)
}

// GetTicketStats はイベントのチケット集計を取得する
func (s *TicketService) GetTicketStats(ctx context.Context, eventID string) (*ticket.Stats, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	// キャッシュから取得を試みる
	if s.statsCache != nil {
		stats, err := s.statsCache.GetStats(ctx, eventID)
		if err == nil {
			return stats, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	stats, err := s.ticketRepo.StatsByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if s.statsCache != nil {
		if cacheErr := s.statsCache.SetStats(ctx, eventID, stats, statsCacheTTL); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}

	return stats, nil
}

// ListParticipants はイベントの参加者一覧を取得する
func (s *TicketService) ListParticipants(ctx context.Context, eventID string, limit, offset int) ([]*participant.Participant, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.participantRepo.ListByEventID(ctx, eventID, limit, offset)
}

func (s *TicketService) invalidateStats(ctx context.Context, eventID string) {
	if s.statsCache != nil {
		if err := s.statsCache.Invalidate(ctx, eventID); err != nil {
			logger.Warn("キャッシュ無効化エラー", zap.Error(err))
		}
	}
}

func (s *TicketService) countIssue(status string) {
	if m := metrics.Get(); m != nil {
		m.TicketsIssuedTotal.WithLabelValues(status).Inc()
	}
}

func (s *TicketService) countValidation(result string) {
	if m := metrics.Get(); m != nil {
		m.TicketValidationsTotal.WithLabelValues(result).Inc()
	}
}
