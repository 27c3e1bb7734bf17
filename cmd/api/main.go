package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/WelderFernandes/event-ticket/internal/api"
	"github.com/WelderFernandes/event-ticket/internal/api/handler"
	custommiddleware "github.com/WelderFernandes/event-ticket/internal/api/middleware"
	"github.com/WelderFernandes/event-ticket/internal/application"
	"github.com/WelderFernandes/event-ticket/internal/config"
	"github.com/WelderFernandes/event-ticket/internal/domain/authz"
	"github.com/WelderFernandes/event-ticket/internal/infrastructure/postgres"
	redisinfra "github.com/WelderFernandes/event-ticket/internal/infrastructure/redis"
	"github.com/WelderFernandes/event-ticket/internal/pkg/logger"
	"github.com/WelderFernandes/event-ticket/internal/pkg/metrics"
	"github.com/WelderFernandes/event-ticket/internal/worker"
)

func main() {
	cfg := config.Load()

	// ロガー初期化
	log := logger.NewLogger(os.Getenv("APP_ENV"))
	logger.Set(log)
	defer logger.Sync()

	// メトリクス初期化
	m := metrics.Init()

	// データベース接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続に失敗", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション実行
	if err := postgres.RunMigrations(db.DB, cfg.MigrationsPath); err != nil {
		logger.Fatal("マイグレーションに失敗", zap.Error(err))
	}

	// Redis接続（任意。未接続でもAPIは動作する）
	redisClient := redisinfra.NewClient(&cfg.Redis)
	var lockManager *redisinfra.LockManager
	var statsCache *redisinfra.StatsCache
	{
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := redisinfra.Ping(ctx, redisClient); err != nil {
			logger.Warn("Redis接続に失敗。分散ロックとキャッシュなしで起動します", zap.Error(err))
		} else {
			lockManager = redisinfra.NewLockManager(redisClient)
			statsCache = redisinfra.NewStatsCache(redisClient)
		}
	}

	// リポジトリ
	eventRepo := postgres.NewEventRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	txManager := postgres.NewTxManager(db)

	// サービス
	eventService := application.NewEventService(eventRepo)
	ticketService := application.NewTicketService(txManager, ticketRepo, participantRepo, eventRepo, lockManager, statsCache)

	// ハンドラー
	healthHandler := handler.NewHealthHandler()
	eventHandler := handler.NewEventHandler(eventService)
	ticketHandler := handler.NewTicketHandler(ticketService)
	validationHandler := handler.NewValidationHandler(ticketService)

	// Echo設定
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	custommiddleware.SetupMiddleware(e)
	e.Use(custommiddleware.PrometheusMiddleware(m))
	e.Use(custommiddleware.ExtractIdentity())

	// ルーティング
	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)

	v1.POST("/events", eventHandler.Create,
		custommiddleware.RequirePermission(authz.ResourceEvent, authz.ActionCreate))
	v1.GET("/events", eventHandler.List)
	v1.GET("/events/:id", eventHandler.GetByID)
	v1.GET("/events/:id/stats", ticketHandler.Stats)
	v1.GET("/events/:id/participants", ticketHandler.Participants,
		custommiddleware.RequirePermission(authz.ResourceParticipant, authz.ActionRead))

	v1.POST("/tickets", ticketHandler.Issue)
	v1.GET("/tickets", ticketHandler.List)
	v1.POST("/tickets/validate", validationHandler.Validate,
		custommiddleware.RequirePermission(authz.ResourceTicket, authz.ActionValidate))

	// Prometheusメトリクスエンドポイント
	metricsCfg := custommiddleware.LoadMetricsConfig()
	if metricsCfg.IsEnabled() {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommiddleware.MetricsBasicAuth())
	}

	// バックグラウンドワーカー起動
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	deactivator := worker.NewFinishedEventDeactivator(eventService, 1*time.Minute)
	go deactivator.Start(workerCtx)

	// サーバー起動
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("サーバー起動", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	deactivator.Stop()
	workerCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
