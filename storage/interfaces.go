package storage

import (
	"context"

	"github.com/sree-9523/RedBus/models"
)

// RouteWriter is the ingestion interface the pipeline persists through.
// One call, one record, one isolated persistence attempt.
type RouteWriter interface {
	InsertRoute(ctx context.Context, record *models.TripRecord) error
	Close() error
}

// RouteReader is the read-only query interface consumed by the reporting
// surface.
type RouteReader interface {
	FetchRoutes(ctx context.Context, filter RouteFilter) ([]*models.TripRecord, error)
}
