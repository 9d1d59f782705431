package router

import (
	"conference-badge-api/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	controller *controller.EventController
}

func NewEventRouter(controller *controller.EventController) *EventRouter {
	return &EventRouter{controller: controller}
}

func (r *EventRouter) Register(g *echo.Group) {
	events := g.Group("/events")
	events.GET("/:slug", r.controller.GetBySlug)
}
