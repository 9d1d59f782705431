package router

import (
	"conference-badge-api/modules/session/controller"

	"github.com/labstack/echo/v4"
)

type SessionRouter struct {
	controller *controller.SessionController
}

func NewSessionRouter(controller *controller.SessionController) *SessionRouter {
	return &SessionRouter{controller: controller}
}

func (r *SessionRouter) Register(g *echo.Group) {
	sessions := g.Group("/sessions")
	sessions.POST("", r.controller.Create)
	sessions.GET("/:id", r.controller.Get)
}
