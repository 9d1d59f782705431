package auth

import (
	"conference-badge-api/core/cache"
	"conference-badge-api/core/config"
	"conference-badge-api/modules/auth/controller"
	"conference-badge-api/modules/auth/router"
	"conference-badge-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init registers the admin login route.
func Init(g *echo.Group, c cache.Cache, cfg config.AuthConfig) {
	svc := service.NewAuthService(cfg, c)
	ctrl := controller.NewAuthController(svc)

	router.NewAuthRouter(ctrl).Register(g)
}
