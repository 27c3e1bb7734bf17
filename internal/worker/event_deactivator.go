package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/WelderFernandes/event-ticket/internal/pkg/logger"
)

// EventDeactivator は終了イベントを非アクティブ化するインターフェース
type EventDeactivator interface {
	DeactivateFinishedEvents(ctx context.Context) (int, error)
}

// FinishedEventDeactivator は開催日を過ぎたイベントを定期的に非アクティブ化するワーカー
type FinishedEventDeactivator struct {
	eventService EventDeactivator
	interval     time.Duration
	stopCh       chan struct{}
	doneCh       chan struct{}
}

// NewFinishedEventDeactivator は新しいワーカーを作成
func NewFinishedEventDeactivator(es EventDeactivator, interval time.Duration) *FinishedEventDeactivator {
	return &FinishedEventDeactivator{
		eventService: es,
		interval:     interval,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start はワーカーを開始
func (d *FinishedEventDeactivator) Start(ctx context.Context) {
	logger.Info("終了イベント非アクティブ化ワーカー開始",
		zap.Duration("interval", d.interval),
	)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	defer close(d.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("終了イベント非アクティブ化ワーカー停止（コンテキストキャンセル）")
			return
		case <-d.stopCh:
			logger.Info("終了イベント非アクティブ化ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			d.deactivate(ctx)
		}
	}
}

// Stop はワーカーを停止
func (d *FinishedEventDeactivator) Stop() {
	close(d.stopCh)
	<-d.doneCh
}

// deactivate は終了イベントを非アクティブ化
func (d *FinishedEventDeactivator) deactivate(ctx context.Context) {
	log := logger.Get()
	log.Debug("終了イベントの非アクティブ化開始")

	count, err := d.eventService.DeactivateFinishedEvents(ctx)
	if err != nil {
		log.Error("終了イベントの非アクティブ化失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("終了イベントを非アクティブ化", zap.Int("count", count))
	} else {
		log.Debug("非アクティブ化対象なし")
	}
}
