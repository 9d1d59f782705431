package event

import (
	"conference-badge-api/core/cache"
	"conference-badge-api/core/database"
	"conference-badge-api/modules/event/controller"
	"conference-badge-api/modules/event/repository"
	"conference-badge-api/modules/event/router"
	"conference-badge-api/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init registers the event routes and returns the service for use by other modules.
func Init(g *echo.Group, db database.IDatabase, c cache.Cache) service.EventService {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, c)
	ctrl := controller.NewEventController(svc)

	router.NewEventRouter(ctrl).Register(g)

	return svc
}
