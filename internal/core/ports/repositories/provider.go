// Package repositories defines the outbound ports of the analytics core.
package repositories

import (
	"context"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
)

// ProjectDataProvider is the external data provider the analytics core loads
// raw records from. Each call returns a plain snapshot collection; there is
// no streaming. The provider owns the fatal failure modes (unavailable
// store, malformed rows); the core treats every returned collection as an
// immutable snapshot.
type ProjectDataProvider interface {
	GetProject(ctx context.Context, projectID string) (*domain.Project, error)
	ListPhases(ctx context.Context, projectID string) ([]domain.Phase, error)
	ListExpenses(ctx context.Context, projectID string) ([]domain.Expense, error)
	ListClientInvoices(ctx context.Context, projectID string) ([]domain.ClientInvoice, error)
	ListContractorPayments(ctx context.Context, projectID string) ([]domain.ContractorPayment, error)
	ListDailyReports(ctx context.Context, projectID string) ([]domain.DailyReport, error)
	ListChangeOrders(ctx context.Context, projectID string) ([]domain.ChangeOrder, error)

	// ListExchangeRates is currency-independent: it returns all known rates.
	ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error)
}
