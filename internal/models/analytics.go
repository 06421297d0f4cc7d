// Package models holds the persistence-layer record shapes. Monetary columns
// are pg NUMERIC and scan into decimal.Decimal; the mapping layer converts to
// float64 exactly once at the domain boundary.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project mirrors the projects table.
type Project struct {
	ProjectID    string
	Name         string
	CurrencyCode string
	StartDate    time.Time
	EndDate      time.Time
	BAC          decimal.Decimal
	VATRate      decimal.Decimal
}

// Phase mirrors the phases table.
type Phase struct {
	PhaseID        string
	ProjectID      string
	WBSCode        string
	Name           string
	PlannedStart   time.Time
	PlannedEnd     time.Time
	PlannedPercent decimal.Decimal
	ActualPercent  decimal.Decimal
	BAC            decimal.Decimal
}

// ChangeOrder mirrors the change_orders table.
type ChangeOrder struct {
	ChangeOrderID string
	ProjectID     string
	Title         string
	Amount        decimal.Decimal
	ApprovedOn    time.Time
}

// Expense mirrors the expenses table. PhaseID and ContractID are nullable.
type Expense struct {
	ExpenseID    string
	ProjectID    string
	PhaseID      *string
	ContractID   *string
	CostCode     string
	Description  string
	Amount       decimal.Decimal
	CurrencyCode string
	TaxRate      decimal.Decimal
	Date         time.Time
}

// ClientInvoice mirrors the client_invoices table. CollectedAmount is
// nullable: NULL means no collection has been recorded.
type ClientInvoice struct {
	InvoiceID       string
	ProjectID       string
	Number          string
	Amount          decimal.Decimal
	CurrencyCode    string
	DueDate         time.Time
	Status          string
	CollectedAmount decimal.NullDecimal
}

// ContractorPayment mirrors the contractor_payments table.
type ContractorPayment struct {
	PaymentID      string
	ProjectID      string
	ContractorName string
	Amount         decimal.Decimal
	CurrencyCode   string
	Retention      decimal.Decimal
	PaidOn         time.Time
}

// DailyReport mirrors the daily_reports table.
type DailyReport struct {
	ReportID      string
	ProjectID     string
	Date          time.Time
	ActualPercent decimal.Decimal
	LaborHours    decimal.Decimal
}

// ExchangeRate mirrors the exchange_rates table.
type ExchangeRate struct {
	FromCurrencyCode string
	ToCurrencyCode   string
	Rate             decimal.Decimal
	DateEffective    time.Time
}
