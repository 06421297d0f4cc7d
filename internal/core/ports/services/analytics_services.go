// Package services defines the inbound service ports consumed by the
// transport layer.
package services

import (
	"context"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
)

// AnalyticsQuery carries the per-request evaluation parameters: the phase
// subset and filters to apply before any aggregation.
type AnalyticsQuery struct {
	SelectedPhaseIDs []string
	Filters          domain.Filters
}

// AnalyticsService exposes every derived projection of the financial-analysis
// dashboard for one project. Implementations load the project record set
// lazily and keep serving the previous snapshot while a reload is
// outstanding.
type AnalyticsService interface {
	// LoadProject installs the record snapshot for projectID. A load that
	// completes after a newer selection returns apperrors.ErrStaleLoad and
	// leaves the newer state untouched.
	LoadProject(ctx context.Context, projectID string) error

	KPIs(ctx context.Context, projectID string, q AnalyticsQuery) (*domain.KPIReport, error)
	CashFlow(ctx context.Context, projectID string, q AnalyticsQuery, view string) (*domain.CashFlowSeries, error)
	BudgetVsActual(ctx context.Context, projectID string, q AnalyticsQuery) ([]domain.BudgetActualRow, error)
	Variance(ctx context.Context, projectID string, q AnalyticsQuery) ([]domain.VarianceRow, error)
	Waterfall(ctx context.Context, projectID string, q AnalyticsQuery) ([]domain.WaterfallStep, error)
	Scenario(ctx context.Context, projectID string, q AnalyticsQuery, adj domain.ScenarioAdjustments) (*domain.ScenarioResult, error)
}

// ServiceContainer aggregates the service implementations handed to the
// transport layer.
type ServiceContainer struct {
	Analytics AnalyticsService
}
