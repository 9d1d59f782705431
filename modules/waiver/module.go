package waiver

import (
	"conference-badge-api/core/config"
	"conference-badge-api/core/constants"
	"conference-badge-api/core/database"
	"conference-badge-api/core/middleware"
	"conference-badge-api/core/queue"
	"conference-badge-api/core/storage"
	"conference-badge-api/modules/waiver/controller"
	"conference-badge-api/modules/waiver/document"
	"conference-badge-api/modules/waiver/renderer"
	"conference-badge-api/modules/waiver/repository"
	"conference-badge-api/modules/waiver/router"
	"conference-badge-api/modules/waiver/service"

	"github.com/labstack/echo/v4"
)

type Dependencies struct {
	Renderer renderer.Renderer
	Store    storage.BlobStore
	Bucket   string
	Sessions service.SessionLinker
	Notifier service.Notifier
	// Tasks and Worker are nil when the background queue is disabled.
	Tasks  queue.Enqueuer
	Worker *queue.Worker
}

func Init(g *echo.Group, db database.IDatabase, deps Dependencies, mw *middleware.Middleware, cfg config.WaiverConfig) service.WaiverService {
	bucket := deps.Bucket
	if bucket == "" {
		bucket = constants.BucketWaiverDocuments
	}
	pipeline := document.NewPipeline(deps.Renderer, deps.Store, bucket, cfg.SignedURLExpiry)
	repo := repository.NewWaiverRepository(db)
	svc := service.NewWaiverService(repo, pipeline, deps.Sessions, deps.Notifier, deps.Tasks, service.Options{
		DefaultVersion: cfg.DefaultVersion,
	})
	ctrl := controller.NewWaiverController(svc)

	router.NewWaiverRouter(ctrl).Register(g, mw)
	if deps.Worker != nil {
		deps.Worker.Handle(constants.TaskWaiverDocumentCleanup, service.NewCleanupHandler(svc))
	}

	return svc
}
