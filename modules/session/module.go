package session

import (
	"time"

	"conference-badge-api/core/database"
	"conference-badge-api/modules/session/controller"
	"conference-badge-api/modules/session/repository"
	"conference-badge-api/modules/session/router"
	"conference-badge-api/modules/session/service"

	"github.com/labstack/echo/v4"
)

func Init(g *echo.Group, db database.IDatabase, ttl time.Duration) service.SessionService {
	repo := repository.NewSessionRepository(db)
	svc := service.NewSessionService(repo, ttl)
	ctrl := controller.NewSessionController(svc)

	router.NewSessionRouter(ctrl).Register(g)

	return svc
}
