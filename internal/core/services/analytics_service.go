package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/apperrors"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
	portsrepo "github.com/JawdatSaleh/ContractorPro-sub000/internal/core/ports/repositories"
	portssvc "github.com/JawdatSaleh/ContractorPro-sub000/internal/core/ports/services"
)

// analyticsService implements the AnalyticsService port. It owns the single
// analysis session and the installed project snapshot; all derived
// projections are recomputed on demand from that snapshot (computed
// analytics are never persisted).
type analyticsService struct {
	BaseService
	provider portsrepo.ProjectDataProvider
	session  *AnalysisSession

	// defaultDisplay is the display currency used when neither the request
	// filters nor the project record carry a currency code.
	defaultDisplay string

	mu         sync.RWMutex
	current    *domain.ProjectSnapshot
	currentGen uint64
}

// AnalyticsServiceOption is a functional option for the analytics service.
type AnalyticsServiceOption func(*analyticsService)

// WithDefaultDisplayCurrency sets the fallback display currency.
func WithDefaultDisplayCurrency(code string) AnalyticsServiceOption {
	return func(s *analyticsService) {
		s.defaultDisplay = strings.ToUpper(code)
	}
}

// NewAnalyticsService creates the analytics orchestrator over a data
// provider and a session.
func NewAnalyticsService(provider portsrepo.ProjectDataProvider, session *AnalysisSession, options ...AnalyticsServiceOption) portssvc.AnalyticsService {
	svc := &analyticsService{
		provider: provider,
		session:  session,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AnalyticsService = (*analyticsService)(nil)

// LoadProject loads the full record set for projectID as one logical unit.
// While the load is outstanding the previous snapshot keeps serving; the new
// record set is installed atomically on completion. If a newer project was
// selected in the meantime the result is discarded (last-selection-wins).
func (s *analyticsService) LoadProject(ctx context.Context, projectID string) error {
	if projectID == "" {
		return fmt.Errorf("%w: project id is required", apperrors.ErrValidation)
	}

	gen, err := s.session.SetProject(projectID)
	if err != nil {
		return err
	}

	project, err := s.provider.GetProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load project %s: %w", projectID, err)
	}
	phases, err := s.provider.ListPhases(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load phases: %w", err)
	}
	expenses, err := s.provider.ListExpenses(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}
	invoices, err := s.provider.ListClientInvoices(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load client invoices: %w", err)
	}
	payments, err := s.provider.ListContractorPayments(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load contractor payments: %w", err)
	}
	reports, err := s.provider.ListDailyReports(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load daily reports: %w", err)
	}
	changeOrders, err := s.provider.ListChangeOrders(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load change orders: %w", err)
	}
	rates, err := s.provider.ListExchangeRates(ctx)
	if err != nil {
		return fmt.Errorf("failed to load exchange rates: %w", err)
	}

	if s.session.Generation() != gen {
		s.LogInfo(ctx, "Discarding stale project load",
			slog.String("project_id", projectID),
			slog.Uint64("generation", gen))
		return apperrors.ErrStaleLoad
	}

	if err := s.session.SetExchangeRates(rates); err != nil {
		return err
	}

	snapshot := &domain.ProjectSnapshot{
		Project:      *project,
		Phases:       phases,
		Expenses:     expenses,
		Invoices:     invoices,
		Payments:     payments,
		DailyReports: reports,
		ChangeOrders: changeOrders,
	}

	s.mu.Lock()
	s.current = snapshot
	s.currentGen = gen
	s.mu.Unlock()

	s.LogInfo(ctx, "Project snapshot installed",
		slog.String("project_id", projectID),
		slog.Int("phase_count", len(phases)),
		slog.Int("expense_count", len(expenses)),
		slog.Int("rate_count", len(rates)))
	return nil
}

// evaluation is the shared per-request context: the installed snapshot with
// the request's filters applied, plus a tracking converter for the active
// display currency.
type evaluation struct {
	snap     *domain.ProjectSnapshot
	conv     *Converter
	display  string
	phases   []domain.Phase
	expenses []domain.Expense
	invoices []domain.ClientInvoice
	payments []domain.ContractorPayment
	reports  []domain.DailyReport
}

func (s *analyticsService) evaluate(ctx context.Context, projectID string, q portssvc.AnalyticsQuery) (*evaluation, error) {
	snap, err := s.ensureLoaded(ctx, projectID)
	if err != nil {
		return nil, err
	}

	// Mirror the request parameters into the session so observers see the
	// active query. The evaluation itself derives from the request alone:
	// concurrent requests never read each other's selections, and a mirror
	// rejected mid-notification does not fail the request.
	if err := s.session.ApplyQuery(q.SelectedPhaseIDs, q.Filters); err != nil {
		s.LogDebug(ctx, "Session mirror skipped", slog.String("reason", err.Error()))
	}

	filters := q.Filters
	if filters.InvoiceStatus == "" {
		filters.InvoiceStatus = domain.InvoiceStatusAll
	}

	display := strings.ToUpper(filters.CurrencyCode)
	if display == "" {
		display = strings.ToUpper(snap.Project.CurrencyCode)
	}
	if display == "" {
		display = s.defaultDisplay
	}

	selected := PhaseSet(q.SelectedPhaseIDs)
	return &evaluation{
		snap:     snap,
		conv:     NewConverter(s.session.RateCache()),
		display:  display,
		phases:   ByPhases(snap.Phases, selected),
		expenses: FilterExpenses(snap.Expenses, selected, filters),
		invoices: FilterInvoices(snap.Invoices, filters),
		payments: FilterPayments(snap.Payments, filters),
		reports:  FilterReports(snap.DailyReports, filters),
	}, nil
}

func (s *analyticsService) ensureLoaded(ctx context.Context, projectID string) (*domain.ProjectSnapshot, error) {
	s.mu.RLock()
	snap := s.current
	s.mu.RUnlock()
	if snap != nil && snap.Project.ProjectID == projectID {
		return snap, nil
	}

	if err := s.LoadProject(ctx, projectID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	snap = s.current
	s.mu.RUnlock()
	if snap == nil || snap.Project.ProjectID != projectID {
		return nil, apperrors.ErrStaleLoad
	}
	return snap, nil
}

// kpisFromEvaluation derives the KPI snapshot: phase totals are aggregated
// in the project's native currency and converted once, while cost entries
// are converted per record before summing.
func (s *analyticsService) kpisFromEvaluation(ev *evaluation) domain.KPISnapshot {
	native := ev.snap.Project.CurrencyCode
	totals := AggregatePhases(ev.phases)

	bac := ev.conv.Convert(totals.BAC, native, ev.display)
	pv := ev.conv.Convert(totals.PV, native, ev.display)
	evTotal := ev.conv.Convert(totals.EV, native, ev.display)

	costs := make([]float64, 0, len(ev.expenses))
	for _, exp := range ev.expenses {
		costs = append(costs, ev.conv.Convert(exp.Amount, exp.CurrencyCode, ev.display))
	}
	ac := ActualCost(costs)

	var incoming float64
	for _, inv := range ev.invoices {
		incoming += ev.conv.Convert(inv.CashAmount(), inv.CurrencyCode, ev.display)
	}
	outgoing := ac
	for _, pay := range ev.payments {
		outgoing += ev.conv.Convert(pay.Amount, pay.CurrencyCode, ev.display)
	}

	return ComputeKPISnapshot(bac, ac, pv, evTotal, len(ev.reports), incoming, outgoing)
}

// logMissingRates surfaces the default-to-unconverted fallback: the numbers
// already passed through unchanged, the condition is reported as a
// data-quality warning rather than swallowed.
func (s *analyticsService) logMissingRates(ctx context.Context, pairs []domain.RatePair) {
	for _, p := range pairs {
		s.LogWarn(ctx, "No exchange rate in either direction; amount passed through unconverted",
			slog.String("from", p.From),
			slog.String("to", p.To))
	}
}

// KPIs produces the KPI snapshot for one (project, filter) evaluation.
func (s *analyticsService) KPIs(ctx context.Context, projectID string, q portssvc.AnalyticsQuery) (*domain.KPIReport, error) {
	ev, err := s.evaluate(ctx, projectID, q)
	if err != nil {
		return nil, err
	}
	snapshot := s.kpisFromEvaluation(ev)
	missing := ev.conv.MissingPairs()
	s.logMissingRates(ctx, missing)
	return &domain.KPIReport{Snapshot: snapshot, MissingRatePairs: missing}, nil
}

// CashFlow produces the time-bucketed series; view is "monthly" (default)
// or "quarterly". The quarterly view re-buckets the monthly sums.
func (s *analyticsService) CashFlow(ctx context.Context, projectID string, q portssvc.AnalyticsQuery, view string) (*domain.CashFlowSeries, error) {
	ev, err := s.evaluate(ctx, projectID, q)
	if err != nil {
		return nil, err
	}
	series := MonthlyCashFlow(ev.invoices, ev.expenses, ev.payments, ev.conv, ev.display)
	if CashFlowView(view) == CashFlowQuarterly {
		series = QuarterlyCashFlow(series)
	}
	s.logMissingRates(ctx, ev.conv.MissingPairs())
	return &series, nil
}

// BudgetVsActual produces the per-phase budget/actual comparison with
// expense provenance.
func (s *analyticsService) BudgetVsActual(ctx context.Context, projectID string, q portssvc.AnalyticsQuery) ([]domain.BudgetActualRow, error) {
	ev, err := s.evaluate(ctx, projectID, q)
	if err != nil {
		return nil, err
	}
	rows := BudgetVsActual(ev.phases, ev.expenses, ev.conv, ev.snap.Project.CurrencyCode, ev.display)
	s.logMissingRates(ctx, ev.conv.MissingPairs())
	return rows, nil
}

// Variance produces the per-phase variance table.
func (s *analyticsService) Variance(ctx context.Context, projectID string, q portssvc.AnalyticsQuery) ([]domain.VarianceRow, error) {
	ev, err := s.evaluate(ctx, projectID, q)
	if err != nil {
		return nil, err
	}
	rows := VarianceRows(ev.phases, ev.expenses, ev.conv, ev.snap.Project.CurrencyCode, ev.display)
	s.logMissingRates(ctx, ev.conv.MissingPairs())
	return rows, nil
}

// Waterfall produces the change-order bridge from the project baseline BAC
// to the portfolio hybrid EAC.
func (s *analyticsService) Waterfall(ctx context.Context, projectID string, q portssvc.AnalyticsQuery) ([]domain.WaterfallStep, error) {
	ev, err := s.evaluate(ctx, projectID, q)
	if err != nil {
		return nil, err
	}
	kpi := s.kpisFromEvaluation(ev)
	steps := ChangeOrderWaterfall(ev.snap.Project.BAC, ev.snap.ChangeOrders, kpi.EAC, ev.conv, ev.snap.Project.CurrencyCode, ev.display)
	s.logMissingRates(ctx, ev.conv.MissingPairs())
	return steps, nil
}

// Scenario runs the what-if simulator against the baseline KPI snapshot of
// the current (project, filter) evaluation.
func (s *analyticsService) Scenario(ctx context.Context, projectID string, q portssvc.AnalyticsQuery, adj domain.ScenarioAdjustments) (*domain.ScenarioResult, error) {
	ev, err := s.evaluate(ctx, projectID, q)
	if err != nil {
		return nil, err
	}
	kpi := s.kpisFromEvaluation(ev)
	result := SimulateScenario(domain.ScenarioBaseline{
		BAC: kpi.BAC,
		AC:  kpi.AC,
		EV:  kpi.EV,
		PV:  kpi.PV,
		CPI: kpi.CPI,
		SPI: kpi.SPI,
	}, adj)
	s.logMissingRates(ctx, ev.conv.MissingPairs())
	return &result, nil
}
