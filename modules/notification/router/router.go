package router

import (
	"conference-badge-api/core/middleware"
	"conference-badge-api/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

type NotificationRouter struct {
	controller *controller.EmailController
}

func NewNotificationRouter(controller *controller.EmailController) *NotificationRouter {
	return &NotificationRouter{controller: controller}
}

func (r *NotificationRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	group := g.Group("/email")
	group.POST("", r.controller.Send, mw.OptionalAuth())
	group.GET("/verify", r.controller.Verify, mw.AuthMiddleware())
}
