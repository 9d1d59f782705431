package service

import (
	"context"

	"conference-badge-api/core/queue"
	"conference-badge-api/modules/waiver/dto"

	"github.com/hibiken/asynq"
)

// NewCleanupHandler processes waiver:document:cleanup tasks queued after a failed insert.
func NewCleanupHandler(svc WaiverService) queue.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload dto.CleanupPayload
		if err := queue.DecodePayload(task, &payload); err != nil {
			return err
		}
		return svc.CleanupDocument(ctx, payload.Path)
	}
}
