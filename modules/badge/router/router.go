package router

import (
	"conference-badge-api/core/middleware"
	"conference-badge-api/modules/badge/controller"

	"github.com/labstack/echo/v4"
)

type BadgeRouter struct {
	controller *controller.BadgeController
}

func NewBadgeRouter(controller *controller.BadgeController) *BadgeRouter {
	return &BadgeRouter{controller: controller}
}

func (r *BadgeRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	badges := g.Group("/badges")
	badges.POST("", r.controller.Create)
	badges.GET("/:id", r.controller.Get, mw.AuthMiddleware())
}
