package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"conference-badge-api/core/cache"
	"conference-badge-api/core/config"
	"conference-badge-api/core/constants"
	"conference-badge-api/core/database"
	"conference-badge-api/core/logger"
	"conference-badge-api/core/middleware"
	"conference-badge-api/core/queue"
	"conference-badge-api/core/storage"
	"conference-badge-api/modules/auth"
	"conference-badge-api/modules/badge"
	"conference-badge-api/modules/event"
	"conference-badge-api/modules/notification"
	notificationService "conference-badge-api/modules/notification/service"
	"conference-badge-api/modules/session"
	"conference-badge-api/modules/telegram"
	"conference-badge-api/modules/waiver"
	"conference-badge-api/modules/waiver/renderer"
)

// openCache returns the redis cache even when redis is unreachable at startup. Callers
// degrade per call and use redis again once it is back. The bool reports the startup ping.
func openCache(ctx context.Context, cfg config.RedisConfig) (*cache.RedisCache, bool) {
	c := cache.NewRedisCache(cfg)
	if err := c.Ping(ctx); err != nil {
		logger.Warn("Server:Run:RedisUnavailable", "addr", cfg.Addr, "error", err)
		return c, false
	}
	return c, true
}

// Run loads configuration, wires every module and serves until SIGINT or SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Logger.Level, cfg.Logger.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	redisCache, redisUp := openCache(ctx, cfg.Redis)
	defer redisCache.Close()

	var (
		tasks  queue.Enqueuer
		worker *queue.Worker
	)
	if cfg.Queue.Enabled && redisUp {
		client := queue.NewClient(cfg.Redis)
		defer client.Close()
		tasks = client
		worker = queue.NewWorker(cfg.Redis, cfg.Queue)
	}

	store := storage.NewS3Store(cfg.Storage)
	chrome := renderer.NewChromeRenderer(renderer.Options{
		ExecPath:         cfg.Waiver.ChromePath,
		RenderTimeout:    cfg.Waiver.RenderTimeout,
		ImageLoadTimeout: cfg.Waiver.ImageLoadTimeout,
	})
	defer chrome.Close()

	e := NewEcho(cfg)
	mw := middleware.NewMiddleware(cfg.Auth.JWTSecret)

	e.GET("/health", HealthHandler(db, redisCache))
	api := e.Group("/api/v1", RateLimit(cfg.RateLimit))

	auth.Init(api, redisCache, cfg.Auth)
	events := event.Init(api, db, redisCache)
	sessions := session.Init(api, db, cfg.Session.TTL)
	invites := telegram.Init(api, db, redisCache, events, sessions, mw, cfg.Telegram)
	email := notificationService.NewEmailService(cfg.Email, nil)

	waivers := waiver.Init(api, db, waiver.Dependencies{
		Renderer: chrome,
		Store:    store,
		Bucket:   cfg.Storage.WaiverDocumentsBucket,
		Sessions: sessions,
		Notifier: email,
		Tasks:    tasks,
		Worker:   worker,
	}, mw, cfg.Waiver)

	badges := badge.Init(api, db, badge.Dependencies{
		Events:   events,
		Sessions: sessions,
		Invites:  invites,
		Notifier: email,
		Store:    store,
		Bucket:   cfg.Storage.BadgeImagesBucket,
	}, mw)

	notification.Init(api, email, badges, waivers, mw)

	if worker != nil {
		if err := worker.Start(); err != nil {
			return fmt.Errorf("start worker: %w", err)
		}
		defer worker.Shutdown()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server:Run:Listening", "addr", addr, "telegram", cfg.Telegram.BotToken != "", "email", email.IsConfigured())
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("Server:Run:ShuttingDown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
