package telegram

import (
	"net/http"

	"conference-badge-api/core/cache"
	"conference-badge-api/core/config"
	"conference-badge-api/core/database"
	"conference-badge-api/core/logger"
	"conference-badge-api/core/middleware"
	"conference-badge-api/modules/telegram/controller"
	"conference-badge-api/modules/telegram/gateway"
	"conference-badge-api/modules/telegram/repository"
	"conference-badge-api/modules/telegram/router"
	"conference-badge-api/modules/telegram/service"

	"github.com/labstack/echo/v4"
)

// Init registers the telegram routes and returns the invite service for the badge flow.
func Init(g *echo.Group, db database.IDatabase, c cache.Cache, events service.EventLookup, sessions service.SessionLookup, mw *middleware.Middleware, cfg config.TelegramConfig) service.InviteService {
	registry := gateway.NewRegistry(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.RequestDelay)
	repo := repository.NewInviteRepository(db)
	svc := service.NewInviteService(events, sessions, repo, registry, c, service.Options{
		DefaultBotToken: cfg.BotToken,
	})
	if cfg.BotToken != "" && cfg.WebhookSecret == "" {
		logger.Warn("Telegram:Init:WebhookDisabled", "reason", "telegram.webhook_secret is not set")
	}
	ctrl := controller.NewTelegramController(svc, cfg.WebhookSecret)

	router.NewTelegramRouter(ctrl).Register(g, mw)

	return svc
}
