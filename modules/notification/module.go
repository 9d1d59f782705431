package notification

import (
	"conference-badge-api/core/middleware"
	"conference-badge-api/modules/notification/controller"
	"conference-badge-api/modules/notification/router"
	"conference-badge-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init registers the email routes. The service is built by the caller because the
// badge and waiver modules both use it and serve as its record loaders.
func Init(g *echo.Group, svc service.EmailService, badges controller.BadgeLoader, waivers controller.WaiverLoader, mw *middleware.Middleware) {
	ctrl := controller.NewEmailController(svc, badges, waivers)
	router.NewNotificationRouter(ctrl).Register(g, mw)
}
