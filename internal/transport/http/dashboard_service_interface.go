package http

import (
	"context"

	"electionpulse/internal/analytics"
	"electionpulse/internal/dataset"
	"electionpulse/internal/services"
)

// DashboardServiceInterface is the read-only query surface the handlers
// depend on, satisfied by services.DashboardService and by test fakes.
type DashboardServiceInterface interface {
	KPISummary(ctx context.Context) (analytics.KPISummary, error)
	TopOutliers(ctx context.Context, scoreColumn string, n int) ([]dataset.PollingUnitRecord, error)
	PartyZScores(ctx context.Context) ([]analytics.LongRow, error)
	AreaComparison(ctx context.Context, groupColumn, valueColumn string) ([]analytics.GroupRollup, error)
	HistoricalTrends(ctx context.Context) ([]analytics.HistoricalPoint, error)
	MapPoints(ctx context.Context) ([]analytics.MapPoint, int, error)
	Reload(ctx context.Context) error
	Status(ctx context.Context) services.DatasetStatus
}
