package services_test

import (
	"testing"
	"time"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyConverter() *services.Converter {
	return services.NewConverter(services.BuildRateCache(nil))
}

func TestQuarterKeyBoundary(t *testing.T) {
	// month 3 belongs to Q1, month 4 to Q2: floor((month-1)/3)+1
	assert.Equal(t, "2024-Q1", services.QuarterKey(date(2024, 3, 31)))
	assert.Equal(t, "2024-Q2", services.QuarterKey(date(2024, 4, 1)))
	assert.Equal(t, "2024-Q1", services.QuarterKey(date(2024, 1, 1)))
	assert.Equal(t, "2024-Q4", services.QuarterKey(date(2024, 12, 15)))
}

func TestMonthlyCashFlowBucketsAndProvenance(t *testing.T) {
	collected := 800.0
	invoices := []domain.ClientInvoice{
		{InvoiceID: "i1", Number: "INV-1", Amount: 1000, CurrencyCode: "SAR", DueDate: date(2024, 1, 10), CollectedAmount: &collected},
		{InvoiceID: "i2", Number: "INV-2", Amount: 500, CurrencyCode: "SAR", DueDate: date(2024, 2, 10)},
	}
	expenses := []domain.Expense{
		{ExpenseID: "e1", Description: "Steel", Amount: 300, CurrencyCode: "SAR", Date: date(2024, 1, 20)},
	}
	payments := []domain.ContractorPayment{
		{PaymentID: "p1", ContractorName: "Al-Bana", Amount: 200, CurrencyCode: "SAR", PaidOn: date(2024, 2, 5)},
	}

	series := services.MonthlyCashFlow(invoices, expenses, payments, emptyConverter(), "SAR")

	require.Equal(t, []string{"2024-01", "2024-02"}, series.Labels)
	// collected_amount (800) is the cash figure for i1, not the billed 1000
	assert.Equal(t, []float64{800, 500}, series.Incoming)
	assert.Equal(t, []float64{300, 200}, series.Outgoing)
	assert.Equal(t, []float64{500, 300}, series.Net)

	require.Len(t, series.Provenance, 2)
	require.Len(t, series.Provenance[0], 2)
	assert.Equal(t, domain.SourceInvoice, series.Provenance[0][0].Kind)
	assert.Equal(t, "i1", series.Provenance[0][0].ID)
	assert.Equal(t, 800.0, series.Provenance[0][0].Amount)
	assert.Equal(t, domain.SourceExpense, series.Provenance[0][1].Kind)
}

func TestMonthlyCashFlowKeepsMostRecentSixBuckets(t *testing.T) {
	var expenses []domain.Expense
	for m := 1; m <= 8; m++ {
		expenses = append(expenses, domain.Expense{
			ExpenseID:    "e",
			Amount:       float64(m),
			CurrencyCode: "SAR",
			Date:         date(2024, time.Month(m), 10),
		})
	}
	series := services.MonthlyCashFlow(nil, expenses, nil, emptyConverter(), "SAR")
	require.Len(t, series.Labels, 6)
	assert.Equal(t, "2024-03", series.Labels[0])
	assert.Equal(t, "2024-08", series.Labels[5])
}

func TestQuarterlyCashFlowRebucketsMonthlySums(t *testing.T) {
	var expenses []domain.Expense
	for m := 1; m <= 6; m++ {
		expenses = append(expenses, domain.Expense{
			ExpenseID:    "e",
			Amount:       100,
			CurrencyCode: "SAR",
			Date:         date(2024, time.Month(m), 10),
		})
	}
	monthly := services.MonthlyCashFlow(nil, expenses, nil, emptyConverter(), "SAR")
	quarterly := services.QuarterlyCashFlow(monthly)

	require.Equal(t, []string{"2024-Q1", "2024-Q2"}, quarterly.Labels)
	assert.Equal(t, []float64{300, 300}, quarterly.Outgoing)
	// provenance of the merged months is concatenated per quarter
	assert.Len(t, quarterly.Provenance[0], 3)

	// re-aggregating the same monthly series is deterministic
	again := services.QuarterlyCashFlow(monthly)
	assert.Equal(t, quarterly, again)
}

func TestQuarterlyCashFlowKeepsMostRecentFourBuckets(t *testing.T) {
	// one expense per quarter across six quarters
	expenses := []domain.Expense{
		{ExpenseID: "a", Amount: 1, CurrencyCode: "SAR", Date: date(2023, 2, 1)},
		{ExpenseID: "b", Amount: 2, CurrencyCode: "SAR", Date: date(2023, 5, 1)},
		{ExpenseID: "c", Amount: 3, CurrencyCode: "SAR", Date: date(2023, 8, 1)},
		{ExpenseID: "d", Amount: 4, CurrencyCode: "SAR", Date: date(2023, 11, 1)},
		{ExpenseID: "e", Amount: 5, CurrencyCode: "SAR", Date: date(2024, 2, 1)},
		{ExpenseID: "f", Amount: 6, CurrencyCode: "SAR", Date: date(2024, 5, 1)},
	}
	monthly := services.MonthlyCashFlow(nil, expenses, nil, emptyConverter(), "SAR")
	quarterly := services.QuarterlyCashFlow(monthly)
	require.Len(t, quarterly.Labels, 4)
	assert.Equal(t, "2024-Q2", quarterly.Labels[3])
}

func TestBudgetVsActual(t *testing.T) {
	phases := []domain.Phase{
		{PhaseID: "p1", WBSCode: "1.1", Name: "Foundations", BAC: 1000},
		{PhaseID: "p2", WBSCode: "1.2", Name: "Structure", BAC: 2000},
	}
	expenses := []domain.Expense{
		{ExpenseID: "e1", PhaseID: strPtr("p1"), Description: "Concrete", Amount: 400, CurrencyCode: "SAR", Date: date(2024, 1, 1)},
		{ExpenseID: "e2", PhaseID: strPtr("p1"), Description: "Rebar", Amount: 100, CurrencyCode: "SAR", Date: date(2024, 1, 2)},
		{ExpenseID: "e3", Description: "Site office", Amount: 999, CurrencyCode: "SAR", Date: date(2024, 1, 3)},
	}

	rows := services.BudgetVsActual(phases, expenses, emptyConverter(), "SAR", "SAR")
	require.Len(t, rows, 2)
	assert.Equal(t, 1000.0, rows[0].Budget)
	assert.Equal(t, 500.0, rows[0].Actual)
	assert.Len(t, rows[0].Provenance, 2)
	assert.Equal(t, 0.0, rows[1].Actual)
	assert.Empty(t, rows[1].Provenance)
}

func TestVarianceRowsConservation(t *testing.T) {
	phases := []domain.Phase{
		{PhaseID: "p1", WBSCode: "1.1", BAC: 1000, PlannedPercent: 55, ActualPercent: 58},
	}
	expenses := []domain.Expense{
		{ExpenseID: "e1", PhaseID: strPtr("p1"), Amount: 600, CurrencyCode: "SAR", Date: date(2024, 1, 1)},
	}

	rows := services.VarianceRows(phases, expenses, emptyConverter(), "SAR", "SAR")
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, 550.0, row.PV)
	assert.Equal(t, 580.0, row.EV)
	assert.Equal(t, 600.0, row.AC)
	assert.InDelta(t, row.EV, row.CV+row.AC, 1e-9)
	assert.InDelta(t, row.EV, row.SV+row.PV, 1e-9)
}

func TestChangeOrderWaterfall(t *testing.T) {
	changeOrders := []domain.ChangeOrder{
		{ChangeOrderID: "co2", Title: "Facade upgrade", Amount: 200, ApprovedOn: date(2024, 3, 1)},
		{ChangeOrderID: "co1", Title: "Scope cut", Amount: -100, ApprovedOn: date(2024, 1, 1)},
	}

	steps := services.ChangeOrderWaterfall(1000, changeOrders, 1150, emptyConverter(), "SAR", "SAR")
	require.Len(t, steps, 4)
	assert.Equal(t, domain.WaterfallStep{Label: "BAC", Value: 1000}, steps[0])
	// change orders apply in approval-date order
	assert.Equal(t, domain.WaterfallStep{Label: "Scope cut", Value: 900}, steps[1])
	assert.Equal(t, domain.WaterfallStep{Label: "Facade upgrade", Value: 1100}, steps[2])
	assert.Equal(t, domain.WaterfallStep{Label: "EAC", Value: 1150}, steps[3])
}
