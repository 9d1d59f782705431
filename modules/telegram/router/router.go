package router

import (
	"conference-badge-api/core/middleware"
	"conference-badge-api/modules/telegram/controller"

	"github.com/labstack/echo/v4"
)

type TelegramRouter struct {
	controller *controller.TelegramController
}

func NewTelegramRouter(controller *controller.TelegramController) *TelegramRouter {
	return &TelegramRouter{controller: controller}
}

func (r *TelegramRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	telegram := g.Group("/telegram")
	telegram.GET("/availability", r.controller.Availability)
	telegram.POST("/generate-invite", r.controller.GenerateInvite)
	telegram.GET("/group-info", r.controller.GroupInfo)
	telegram.GET("/event-invite", r.controller.EventInvite)
	telegram.POST("/webhook", r.controller.Webhook)
	telegram.GET("/status", r.controller.Status, mw.AuthMiddleware())
}
