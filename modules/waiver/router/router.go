package router

import (
	"conference-badge-api/core/middleware"
	"conference-badge-api/modules/waiver/controller"

	"github.com/labstack/echo/v4"
)

type WaiverRouter struct {
	controller *controller.WaiverController
}

func NewWaiverRouter(controller *controller.WaiverController) *WaiverRouter {
	return &WaiverRouter{controller: controller}
}

func (r *WaiverRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	g.POST("/waiver-pdf", r.controller.Submit)
	g.GET("/waiver-pdf", r.controller.Get)
	g.GET("/waivers/:id/document-url", r.controller.DocumentURL, mw.AuthMiddleware())
}
