package badge

import (
	"conference-badge-api/core/database"
	"conference-badge-api/core/middleware"
	"conference-badge-api/core/storage"
	"conference-badge-api/modules/badge/controller"
	"conference-badge-api/modules/badge/repository"
	"conference-badge-api/modules/badge/router"
	"conference-badge-api/modules/badge/service"

	"github.com/labstack/echo/v4"
)

type Dependencies struct {
	Events   service.EventLookup
	Sessions service.SessionProvider
	Invites  service.InviteIssuer
	Notifier service.Notifier
	Store    storage.BlobStore
	Bucket   string
}

// Init registers the badge routes and returns the service, which also loads
// badge confirmation data for the email endpoint.
func Init(g *echo.Group, db database.IDatabase, deps Dependencies, mw *middleware.Middleware) service.BadgeService {
	repo := repository.NewBadgeRepository(db)
	svc := service.NewBadgeService(repo, deps.Events, deps.Sessions, deps.Invites, deps.Notifier, deps.Store, deps.Bucket)
	ctrl := controller.NewBadgeController(svc)

	router.NewBadgeRouter(ctrl).Register(g, mw)

	return svc
}
