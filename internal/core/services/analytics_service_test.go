package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/apperrors"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
	portssvc "github.com/JawdatSaleh/ContractorPro-sub000/internal/core/ports/services"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ProjectDataProvider ---
type MockProjectDataProvider struct {
	mock.Mock
}

func (m *MockProjectDataProvider) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectDataProvider) ListPhases(ctx context.Context, projectID string) ([]domain.Phase, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Phase), args.Error(1)
}

func (m *MockProjectDataProvider) ListExpenses(ctx context.Context, projectID string) ([]domain.Expense, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockProjectDataProvider) ListClientInvoices(ctx context.Context, projectID string) ([]domain.ClientInvoice, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClientInvoice), args.Error(1)
}

func (m *MockProjectDataProvider) ListContractorPayments(ctx context.Context, projectID string) ([]domain.ContractorPayment, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContractorPayment), args.Error(1)
}

func (m *MockProjectDataProvider) ListDailyReports(ctx context.Context, projectID string) ([]domain.DailyReport, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyReport), args.Error(1)
}

func (m *MockProjectDataProvider) ListChangeOrders(ctx context.Context, projectID string) ([]domain.ChangeOrder, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChangeOrder), args.Error(1)
}

func (m *MockProjectDataProvider) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

// --- Test Suite ---
type AnalyticsServiceTestSuite struct {
	suite.Suite
	mockProvider *MockProjectDataProvider
	session      *services.AnalysisSession
	service      portssvc.AnalyticsService
}

func (suite *AnalyticsServiceTestSuite) SetupTest() {
	suite.mockProvider = new(MockProjectDataProvider)
	suite.session = services.NewAnalysisSession("en")
	suite.service = services.NewAnalyticsService(suite.mockProvider, suite.session)
}

const testProjectID = "proj-1"

func (suite *AnalyticsServiceTestSuite) expectProjectLoad() {
	suite.expectProjectCollections()
	suite.mockProvider.On("ListExchangeRates", mock.Anything).Return([]domain.ExchangeRate{
		{FromCurrencyCode: "USD", ToCurrencyCode: "SAR", Rate: 3.75, DateEffective: date(2024, 1, 1)},
	}, nil).Once()
}

func (suite *AnalyticsServiceTestSuite) expectProjectCollections() {
	ctx := mock.Anything
	suite.mockProvider.On("GetProject", ctx, testProjectID).Return(&domain.Project{
		ProjectID:    testProjectID,
		Name:         "Tower A",
		CurrencyCode: "SAR",
		BAC:          1000,
	}, nil).Once()
	suite.mockProvider.On("ListPhases", ctx, testProjectID).Return([]domain.Phase{
		{PhaseID: "p1", ProjectID: testProjectID, WBSCode: "1.1", Name: "Foundations", PlannedPercent: 55, ActualPercent: 58, BAC: 1000},
	}, nil).Once()
	suite.mockProvider.On("ListExpenses", ctx, testProjectID).Return([]domain.Expense{
		{ExpenseID: "e1", ProjectID: testProjectID, PhaseID: strPtr("p1"), Description: "Concrete", Amount: 600, CurrencyCode: "SAR", Date: date(2024, 1, 10)},
	}, nil).Once()
	collected := 900.0
	suite.mockProvider.On("ListClientInvoices", ctx, testProjectID).Return([]domain.ClientInvoice{
		{InvoiceID: "i1", ProjectID: testProjectID, Number: "INV-1", Amount: 950, CurrencyCode: "SAR", DueDate: date(2024, 1, 20), Status: domain.InvoiceStatusPaid, CollectedAmount: &collected},
	}, nil).Once()
	suite.mockProvider.On("ListContractorPayments", ctx, testProjectID).Return([]domain.ContractorPayment{
		{PaymentID: "pay1", ProjectID: testProjectID, ContractorName: "Al-Bana", Amount: 100, CurrencyCode: "SAR", PaidOn: date(2024, 2, 5)},
	}, nil).Once()
	suite.mockProvider.On("ListDailyReports", ctx, testProjectID).Return([]domain.DailyReport{
		{ReportID: "r1", Date: date(2024, 1, 5)},
		{ReportID: "r2", Date: date(2024, 1, 12)},
		{ReportID: "r3", Date: date(2024, 1, 19)},
		{ReportID: "r4", Date: date(2024, 1, 26)},
	}, nil).Once()
	suite.mockProvider.On("ListChangeOrders", ctx, testProjectID).Return([]domain.ChangeOrder{
		{ChangeOrderID: "co1", Title: "Facade upgrade", Amount: 200, ApprovedOn: date(2024, 2, 1)},
	}, nil).Once()
}

// --- Test Cases ---

func (suite *AnalyticsServiceTestSuite) TestLoadProject_RequiresProjectID() {
	err := suite.service.LoadProject(context.Background(), "")
	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AnalyticsServiceTestSuite) TestLoadProject_PropagatesProviderError() {
	suite.mockProvider.On("GetProject", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.LoadProject(context.Background(), "missing")
	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.mockProvider.AssertExpectations(suite.T())
}

func (suite *AnalyticsServiceTestSuite) TestLoadProject_DiscardsStaleResult() {
	suite.expectProjectCollections()
	// a newer selection arrives while the provider calls are in flight
	suite.mockProvider.On("ListExchangeRates", mock.Anything).Run(func(mock.Arguments) {
		_, err := suite.session.SetProject("proj-2")
		suite.Require().NoError(err)
	}).Return([]domain.ExchangeRate(nil), nil).Once()

	err := suite.service.LoadProject(context.Background(), testProjectID)
	suite.Require().ErrorIs(err, apperrors.ErrStaleLoad)
	suite.Equal("proj-2", suite.session.Snapshot().ProjectID)
}

func (suite *AnalyticsServiceTestSuite) TestKPIs_LazyLoadsAndComputes() {
	suite.expectProjectLoad()

	report, err := suite.service.KPIs(context.Background(), testProjectID, portssvc.AnalyticsQuery{})
	suite.Require().NoError(err)
	suite.Require().NotNil(report)

	snap := report.Snapshot
	suite.Equal(1000.0, snap.BAC)
	suite.Equal(600.0, snap.AC)
	suite.Equal(550.0, snap.PV)
	suite.Equal(580.0, snap.EV)
	suite.Equal(-20.0, snap.CV)
	suite.Equal(30.0, snap.SV)
	suite.InDelta(1.0545, snap.SPI, 0.0001)
	// 4 daily reports inside the window normalize the burn rate
	suite.Equal(150.0, snap.BurnRate)
	// incoming 900 collected, outgoing 600 expenses + 100 payment
	suite.Equal(200.0, snap.NetCashFlow)
	suite.Empty(report.MissingRatePairs)

	suite.mockProvider.AssertExpectations(suite.T())

	// a second evaluation reuses the installed snapshot, no further provider calls
	_, err = suite.service.KPIs(context.Background(), testProjectID, portssvc.AnalyticsQuery{})
	suite.Require().NoError(err)
	suite.mockProvider.AssertExpectations(suite.T())
}

func (suite *AnalyticsServiceTestSuite) TestKPIs_ConvertsToDisplayCurrency() {
	suite.expectProjectLoad()

	report, err := suite.service.KPIs(context.Background(), testProjectID, portssvc.AnalyticsQuery{
		Filters: domain.Filters{CurrencyCode: "USD"},
	})
	suite.Require().NoError(err)

	// SAR figures divide through the inverse of the USD->SAR rate
	suite.InDelta(1000.0/3.75, report.Snapshot.BAC, 1e-9)
	suite.InDelta(600.0/3.75, report.Snapshot.AC, 1e-9)
	suite.Empty(report.MissingRatePairs)
}

func (suite *AnalyticsServiceTestSuite) TestKPIs_SurfacesMissingRatePairs() {
	suite.expectProjectLoad()

	report, err := suite.service.KPIs(context.Background(), testProjectID, portssvc.AnalyticsQuery{
		Filters: domain.Filters{CurrencyCode: "EUR"},
	})
	suite.Require().NoError(err)

	// amounts pass through unconverted and the pair is reported
	suite.Equal(1000.0, report.Snapshot.BAC)
	suite.Require().Len(report.MissingRatePairs, 1)
	suite.Equal(domain.RatePair{From: "SAR", To: "EUR"}, report.MissingRatePairs[0])
}

func (suite *AnalyticsServiceTestSuite) TestKPIs_PhaseSelectionRestrictsTotals() {
	suite.expectProjectLoad()

	report, err := suite.service.KPIs(context.Background(), testProjectID, portssvc.AnalyticsQuery{
		SelectedPhaseIDs: []string{"p-other"},
	})
	suite.Require().NoError(err)
	suite.Zero(report.Snapshot.BAC)
	suite.Zero(report.Snapshot.AC)
}

func (suite *AnalyticsServiceTestSuite) TestKPIs_ConcurrentSessionMutationDoesNotAffectRequest() {
	suite.expectProjectLoad()

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	suite.session.Subscribe(func(domain.SessionSnapshot) {
		once.Do(func() {
			close(entered)
			<-release
		})
	})

	// another goroutine mutates the session while a request's observer
	// fan-out is in flight
	errCh := make(chan error, 1)
	go func() {
		<-entered
		errCh <- suite.session.SetSelectedPhases([]string{"p-other"})
		close(release)
	}()

	report, err := suite.service.KPIs(context.Background(), testProjectID, portssvc.AnalyticsQuery{})
	suite.Require().NoError(err)
	// the request's own (empty) selection drives the figures
	suite.Equal(1000.0, report.Snapshot.BAC)
	suite.ErrorIs(<-errCh, apperrors.ErrReentrantMutation)
}

func (suite *AnalyticsServiceTestSuite) TestKPIs_EvaluatesRequestNotResidualSessionState() {
	suite.expectProjectLoad()
	ctx := context.Background()

	_, err := suite.service.KPIs(ctx, testProjectID, portssvc.AnalyticsQuery{
		SelectedPhaseIDs: []string{"p-other"},
		Filters:          domain.Filters{CurrencyCode: "EUR"},
	})
	suite.Require().NoError(err)

	// the next request with no selection sees the full portfolio in the
	// project currency, regardless of what the session last held
	report, err := suite.service.KPIs(ctx, testProjectID, portssvc.AnalyticsQuery{})
	suite.Require().NoError(err)
	suite.Equal(1000.0, report.Snapshot.BAC)
	suite.Equal(600.0, report.Snapshot.AC)
	suite.Empty(report.MissingRatePairs)
}

func (suite *AnalyticsServiceTestSuite) TestCashFlow_MonthlyAndQuarterly() {
	suite.expectProjectLoad()
	ctx := context.Background()

	monthly, err := suite.service.CashFlow(ctx, testProjectID, portssvc.AnalyticsQuery{}, "monthly")
	suite.Require().NoError(err)
	suite.Equal([]string{"2024-01", "2024-02"}, monthly.Labels)
	suite.Equal([]float64{900, 0}, monthly.Incoming)
	suite.Equal([]float64{600, 100}, monthly.Outgoing)

	quarterly, err := suite.service.CashFlow(ctx, testProjectID, portssvc.AnalyticsQuery{}, "quarterly")
	suite.Require().NoError(err)
	suite.Equal([]string{"2024-Q1"}, quarterly.Labels)
	suite.Equal([]float64{900}, quarterly.Incoming)
	suite.Equal([]float64{700}, quarterly.Outgoing)
	suite.Equal([]float64{200}, quarterly.Net)
}

func (suite *AnalyticsServiceTestSuite) TestBudgetVsActualAndVariance() {
	suite.expectProjectLoad()
	ctx := context.Background()

	rows, err := suite.service.BudgetVsActual(ctx, testProjectID, portssvc.AnalyticsQuery{})
	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	suite.Equal(1000.0, rows[0].Budget)
	suite.Equal(600.0, rows[0].Actual)
	suite.Require().Len(rows[0].Provenance, 1)
	suite.Equal("e1", rows[0].Provenance[0].ID)

	variance, err := suite.service.Variance(ctx, testProjectID, portssvc.AnalyticsQuery{})
	suite.Require().NoError(err)
	suite.Require().Len(variance, 1)
	suite.Equal(550.0, variance[0].PV)
	suite.Equal(580.0, variance[0].EV)
	suite.Equal(600.0, variance[0].AC)
}

func (suite *AnalyticsServiceTestSuite) TestWaterfall_BridgesBACToEAC() {
	suite.expectProjectLoad()

	steps, err := suite.service.Waterfall(context.Background(), testProjectID, portssvc.AnalyticsQuery{})
	suite.Require().NoError(err)
	suite.Require().Len(steps, 3)
	suite.Equal("BAC", steps[0].Label)
	suite.Equal(1000.0, steps[0].Value)
	suite.Equal("Facade upgrade", steps[1].Label)
	suite.Equal(1200.0, steps[1].Value)
	suite.Equal("EAC", steps[2].Label)
	suite.Greater(steps[2].Value, 0.0)
}

func (suite *AnalyticsServiceTestSuite) TestScenario_ZeroAdjustmentsMatchBaseline() {
	suite.expectProjectLoad()

	result, err := suite.service.Scenario(context.Background(), testProjectID, portssvc.AnalyticsQuery{}, domain.ScenarioAdjustments{})
	suite.Require().NoError(err)
	suite.Equal(result.Baseline, result.Scenario)
}

func TestAnalyticsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsServiceTestSuite))
}
