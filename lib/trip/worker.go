package triphandler

import (
	"context"
	"time"

	baseworker "hr-portal-backend/lib/utils/base-worker"
)

const (
	workerFirstRunDelay = 15 * time.Second
	workerRunInterval   = 30 * time.Minute
)

// StartWorker periodically moves approved trips whose start date arrived
// into the in-progress status.
func StartWorker(ctx context.Context) {
	worker := baseworker.NewInstance("trip-progress", workerFirstRunDelay, workerRunInterval)
	go worker.Run(ctx, func(ctx context.Context) {
		Instance.StartDueTrips(ctx)
	})
}
