// Package mapping converts persistence models into domain records. This is
// the single decimal→float64 boundary: the analytics formulas run on binary
// floating point by design, matching the dashboard's numeric behavior.
package mapping

import (
	"strings"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/models"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/utils/numeric"
)

// ToDomainProject converts a project model.
func ToDomainProject(m models.Project) domain.Project {
	return domain.Project{
		ProjectID:    m.ProjectID,
		Name:         m.Name,
		CurrencyCode: strings.ToUpper(m.CurrencyCode),
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		BAC:          m.BAC.InexactFloat64(),
		VATRate:      m.VATRate.InexactFloat64(),
	}
}

// ToDomainPhase converts a phase model; percents are clamped to [0,100].
func ToDomainPhase(m models.Phase) domain.Phase {
	return domain.Phase{
		PhaseID:        m.PhaseID,
		ProjectID:      m.ProjectID,
		WBSCode:        m.WBSCode,
		Name:           m.Name,
		PlannedStart:   m.PlannedStart,
		PlannedEnd:     m.PlannedEnd,
		PlannedPercent: numeric.ClampPercent(m.PlannedPercent.InexactFloat64()),
		ActualPercent:  numeric.ClampPercent(m.ActualPercent.InexactFloat64()),
		BAC:            m.BAC.InexactFloat64(),
	}
}

// ToDomainChangeOrder converts a change-order model.
func ToDomainChangeOrder(m models.ChangeOrder) domain.ChangeOrder {
	return domain.ChangeOrder{
		ChangeOrderID: m.ChangeOrderID,
		ProjectID:     m.ProjectID,
		Title:         m.Title,
		Amount:        m.Amount.InexactFloat64(),
		ApprovedOn:    m.ApprovedOn,
	}
}

// ToDomainExpense converts an expense model.
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:    m.ExpenseID,
		ProjectID:    m.ProjectID,
		PhaseID:      m.PhaseID,
		ContractID:   m.ContractID,
		CostCode:     m.CostCode,
		Description:  m.Description,
		Amount:       m.Amount.InexactFloat64(),
		CurrencyCode: strings.ToUpper(m.CurrencyCode),
		TaxRate:      m.TaxRate.InexactFloat64(),
		Date:         m.Date,
	}
}

// ToDomainClientInvoice converts an invoice model; a NULL collected amount
// maps to nil so the cash-relevant fallback stays observable downstream.
func ToDomainClientInvoice(m models.ClientInvoice) domain.ClientInvoice {
	inv := domain.ClientInvoice{
		InvoiceID:    m.InvoiceID,
		ProjectID:    m.ProjectID,
		Number:       m.Number,
		Amount:       m.Amount.InexactFloat64(),
		CurrencyCode: strings.ToUpper(m.CurrencyCode),
		DueDate:      m.DueDate,
		Status:       domain.InvoiceStatus(m.Status),
	}
	if m.CollectedAmount.Valid {
		collected := m.CollectedAmount.Decimal.InexactFloat64()
		inv.CollectedAmount = &collected
	}
	return inv
}

// ToDomainContractorPayment converts a contractor-payment model.
func ToDomainContractorPayment(m models.ContractorPayment) domain.ContractorPayment {
	return domain.ContractorPayment{
		PaymentID:      m.PaymentID,
		ProjectID:      m.ProjectID,
		ContractorName: m.ContractorName,
		Amount:         m.Amount.InexactFloat64(),
		CurrencyCode:   strings.ToUpper(m.CurrencyCode),
		Retention:      m.Retention.InexactFloat64(),
		PaidOn:         m.PaidOn,
	}
}

// ToDomainDailyReport converts a daily-report model.
func ToDomainDailyReport(m models.DailyReport) domain.DailyReport {
	return domain.DailyReport{
		ReportID:      m.ReportID,
		ProjectID:     m.ProjectID,
		Date:          m.Date,
		ActualPercent: numeric.ClampPercent(m.ActualPercent.InexactFloat64()),
		LaborHours:    m.LaborHours.InexactFloat64(),
	}
}

// ToDomainExchangeRate converts an exchange-rate model.
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		FromCurrencyCode: strings.ToUpper(m.FromCurrencyCode),
		ToCurrencyCode:   strings.ToUpper(m.ToCurrencyCode),
		Rate:             m.Rate.InexactFloat64(),
		DateEffective:    m.DateEffective,
	}
}
