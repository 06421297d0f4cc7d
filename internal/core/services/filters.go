package services

import (
	"time"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
)

// Dated is any record with a representative calendar date. The bool result is
// false for records lacking one; such records always pass date filters
// (treated as date-unconstrained).
type Dated interface {
	RepresentativeDate() (time.Time, bool)
}

// PhaseScoped is any record that can be allocated to a phase. An empty ref
// means the record is unallocated.
type PhaseScoped interface {
	PhaseRef() string
}

// PhaseSet builds the membership set used by ByPhases from a selected-phase
// id slice. An empty or nil slice yields a nil set, meaning no restriction.
func PhaseSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// ByPhases keeps records whose phase is in the selected set. A nil/empty set
// means no restriction: every record passes.
func ByPhases[T PhaseScoped](records []T, selected map[string]struct{}) []T {
	if len(selected) == 0 {
		return records
	}
	kept := make([]T, 0, len(records))
	for _, r := range records {
		if _, ok := selected[r.PhaseRef()]; ok {
			kept = append(kept, r)
		}
	}
	return kept
}

// ByStatus keeps invoices with the given status. InvoiceStatusAll (or an
// empty status) means no restriction.
func ByStatus(invoices []domain.ClientInvoice, status domain.InvoiceStatus) []domain.ClientInvoice {
	if status == "" || status == domain.InvoiceStatusAll {
		return invoices
	}
	kept := make([]domain.ClientInvoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.Status == status {
			kept = append(kept, inv)
		}
	}
	return kept
}

// InDateRange keeps records whose representative date falls inside the
// inclusive [from, to] window. Nil bounds are open-ended; records without a
// representative date always pass.
func InDateRange[T Dated](records []T, from, to *time.Time) []T {
	if from == nil && to == nil {
		return records
	}
	kept := make([]T, 0, len(records))
	for _, r := range records {
		date, ok := r.RepresentativeDate()
		if !ok {
			kept = append(kept, r)
			continue
		}
		if from != nil && date.Before(*from) {
			continue
		}
		if to != nil && date.After(*to) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// FilterExpenses applies the phase and date filters to expense records.
// Each filter is independent and commutative.
func FilterExpenses(expenses []domain.Expense, selected map[string]struct{}, f domain.Filters) []domain.Expense {
	return InDateRange(ByPhases(expenses, selected), f.DateFrom, f.DateTo)
}

// FilterInvoices applies the status and date filters to invoice records.
func FilterInvoices(invoices []domain.ClientInvoice, f domain.Filters) []domain.ClientInvoice {
	return InDateRange(ByStatus(invoices, f.InvoiceStatus), f.DateFrom, f.DateTo)
}

// FilterPayments applies the date filter to contractor payments.
func FilterPayments(payments []domain.ContractorPayment, f domain.Filters) []domain.ContractorPayment {
	return InDateRange(payments, f.DateFrom, f.DateTo)
}

// FilterReports applies the date filter to daily reports; the surviving count
// is the elapsedPeriods input of the burn rate.
func FilterReports(reports []domain.DailyReport, f domain.Filters) []domain.DailyReport {
	return InDateRange(reports, f.DateFrom, f.DateTo)
}
