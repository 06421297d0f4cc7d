package services_test

import (
	"testing"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func testExpenses() []domain.Expense {
	return []domain.Expense{
		{ExpenseID: "e1", PhaseID: strPtr("p1"), Amount: 100, Date: date(2024, 1, 15)},
		{ExpenseID: "e2", PhaseID: strPtr("p2"), Amount: 200, Date: date(2024, 2, 15)},
		{ExpenseID: "e3", Amount: 300, Date: date(2024, 3, 15)},
		{ExpenseID: "e4", PhaseID: strPtr("p1"), Amount: 400}, // no date
	}
}

func TestByPhasesEmptySelectionMeansNoRestriction(t *testing.T) {
	expenses := testExpenses()
	assert.Len(t, services.ByPhases(expenses, services.PhaseSet(nil)), 4)
	assert.Len(t, services.ByPhases(expenses, services.PhaseSet([]string{})), 4)

	kept := services.ByPhases(expenses, services.PhaseSet([]string{"p1"}))
	require.Len(t, kept, 2)
	assert.Equal(t, "e1", kept[0].ExpenseID)
	assert.Equal(t, "e4", kept[1].ExpenseID)
}

func TestByStatus(t *testing.T) {
	invoices := []domain.ClientInvoice{
		{InvoiceID: "i1", Status: domain.InvoiceStatusPaid},
		{InvoiceID: "i2", Status: domain.InvoiceStatusOverdue},
	}
	assert.Len(t, services.ByStatus(invoices, domain.InvoiceStatusAll), 2)
	assert.Len(t, services.ByStatus(invoices, ""), 2)

	kept := services.ByStatus(invoices, domain.InvoiceStatusPaid)
	require.Len(t, kept, 1)
	assert.Equal(t, "i1", kept[0].InvoiceID)
}

func TestInDateRangeBoundsAreInclusive(t *testing.T) {
	from := date(2024, 1, 15)
	to := date(2024, 2, 15)

	kept := services.InDateRange(testExpenses(), &from, &to)
	ids := make([]string, 0, len(kept))
	for _, e := range kept {
		ids = append(ids, e.ExpenseID)
	}
	// e1 and e2 sit exactly on the bounds; e4 has no date and always passes
	assert.Equal(t, []string{"e1", "e2", "e4"}, ids)
}

func TestInDateRangeOpenBounds(t *testing.T) {
	from := date(2024, 3, 1)
	kept := services.InDateRange(testExpenses(), &from, nil)
	require.Len(t, kept, 2)
	assert.Equal(t, "e3", kept[0].ExpenseID)
	assert.Equal(t, "e4", kept[1].ExpenseID)

	assert.Len(t, services.InDateRange(testExpenses(), nil, nil), 4)
}

func TestRepresentativeDatePriority(t *testing.T) {
	inv := domain.ClientInvoice{DueDate: date(2024, 5, 1)}
	got, ok := inv.RepresentativeDate()
	require.True(t, ok)
	assert.Equal(t, date(2024, 5, 1), got)

	pay := domain.ContractorPayment{PaidOn: date(2024, 6, 1)}
	got, ok = pay.RepresentativeDate()
	require.True(t, ok)
	assert.Equal(t, date(2024, 6, 1), got)

	_, ok = domain.Expense{}.RepresentativeDate()
	assert.False(t, ok)
}

// Filters must commute: applying them in any order yields the same records.
func TestFilterCommutativity(t *testing.T) {
	expenses := testExpenses()
	selected := services.PhaseSet([]string{"p1", "p2"})
	from := date(2024, 1, 1)
	to := date(2024, 2, 28)

	phaseThenDate := services.InDateRange(services.ByPhases(expenses, selected), &from, &to)
	dateThenPhase := services.ByPhases(services.InDateRange(expenses, &from, &to), selected)
	assert.Equal(t, phaseThenDate, dateThenPhase)

	invoices := []domain.ClientInvoice{
		{InvoiceID: "i1", Status: domain.InvoiceStatusPaid, DueDate: date(2024, 1, 20)},
		{InvoiceID: "i2", Status: domain.InvoiceStatusPaid, DueDate: date(2024, 4, 20)},
		{InvoiceID: "i3", Status: domain.InvoiceStatusDraft, DueDate: date(2024, 1, 25)},
	}
	statusThenDate := services.InDateRange(services.ByStatus(invoices, domain.InvoiceStatusPaid), &from, &to)
	dateThenStatus := services.ByStatus(services.InDateRange(invoices, &from, &to), domain.InvoiceStatusPaid)
	assert.Equal(t, statusThenDate, dateThenStatus)
	require.Len(t, statusThenDate, 1)
	assert.Equal(t, "i1", statusThenDate[0].InvoiceID)
}

func TestFilterHelpersComposeAllPredicates(t *testing.T) {
	from := date(2024, 1, 1)
	f := domain.Filters{
		InvoiceStatus: domain.InvoiceStatusAll,
		DateFrom:      &from,
	}
	assert.Len(t, services.FilterExpenses(testExpenses(), nil, f), 4)
	assert.Len(t, services.FilterReports([]domain.DailyReport{
		{ReportID: "r1", Date: date(2023, 12, 31)},
		{ReportID: "r2", Date: date(2024, 1, 1)},
	}, f), 1)
}
