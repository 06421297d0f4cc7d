package domain

import "time"

// InvoiceStatus enumerates the lifecycle states of a client invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	InvoiceStatusPartial InvoiceStatus = "partial"

	// InvoiceStatusAll is the filter wildcard, not a persisted status.
	InvoiceStatusAll InvoiceStatus = "all"
)

// Expense is an actual-cost entry, the primary source of AC. PhaseID and
// ContractID are optional (nil when the expense is not allocated).
type Expense struct {
	ExpenseID    string    `json:"expenseID"`
	ProjectID    string    `json:"projectID"`
	PhaseID      *string   `json:"phaseID,omitempty"`
	ContractID   *string   `json:"contractID,omitempty"`
	CostCode     string    `json:"costCode"`
	Description  string    `json:"description"`
	Amount       float64   `json:"amount"`
	CurrencyCode string    `json:"currencyCode"`
	TaxRate      float64   `json:"taxRate"`
	Date         time.Time `json:"date"`
}

// PhaseRef returns the phase the expense is allocated to, or "" when
// unallocated.
func (e Expense) PhaseRef() string {
	if e.PhaseID == nil {
		return ""
	}
	return *e.PhaseID
}

// RepresentativeDate returns the expense date; expenses always carry one.
func (e Expense) RepresentativeDate() (time.Time, bool) {
	if e.Date.IsZero() {
		return time.Time{}, false
	}
	return e.Date, true
}

// ClientInvoice drives cash-inflow aggregation.
type ClientInvoice struct {
	InvoiceID    string        `json:"invoiceID"`
	ProjectID    string        `json:"projectID"`
	Number       string        `json:"number"`
	Amount       float64       `json:"amount"`
	CurrencyCode string        `json:"currencyCode"`
	DueDate      time.Time     `json:"dueDate"`
	Status       InvoiceStatus `json:"status"`
	// CollectedAmount is the cash actually received; nil when not recorded.
	CollectedAmount *float64 `json:"collectedAmount,omitempty"`
}

// CashAmount is the cash-relevant figure of the invoice: the collected amount
// when recorded, otherwise the billed amount.
func (i ClientInvoice) CashAmount() float64 {
	if i.CollectedAmount != nil {
		return *i.CollectedAmount
	}
	return i.Amount
}

// RepresentativeDate resolves to the due date for invoices.
func (i ClientInvoice) RepresentativeDate() (time.Time, bool) {
	if i.DueDate.IsZero() {
		return time.Time{}, false
	}
	return i.DueDate, true
}

// ContractorPayment drives cash-outflow aggregation alongside expenses.
// Retention is the fraction withheld until contract closeout; the full amount
// is still the aggregation figure, retention is carried for display.
type ContractorPayment struct {
	PaymentID      string    `json:"paymentID"`
	ProjectID      string    `json:"projectID"`
	ContractorName string    `json:"contractorName"`
	Amount         float64   `json:"amount"`
	CurrencyCode   string    `json:"currencyCode"`
	Retention      float64   `json:"retention"` // [0,1)
	PaidOn         time.Time `json:"paidOn"`
}

// WithheldAmount is the retained portion of the payment.
func (p ContractorPayment) WithheldAmount() float64 {
	return p.Amount * p.Retention
}

// RepresentativeDate resolves to the paid-on date for contractor payments.
func (p ContractorPayment) RepresentativeDate() (time.Time, bool) {
	if p.PaidOn.IsZero() {
		return time.Time{}, false
	}
	return p.PaidOn, true
}

// DailyReport contributes only elapsedPeriods (the count of reports inside
// the active filter window) for burn-rate normalization.
type DailyReport struct {
	ReportID      string    `json:"reportID"`
	ProjectID     string    `json:"projectID"`
	Date          time.Time `json:"date"`
	ActualPercent float64   `json:"actualPercent"`
	LaborHours    float64   `json:"laborHours"`
}

// RepresentativeDate resolves to the report date.
func (r DailyReport) RepresentativeDate() (time.Time, bool) {
	if r.Date.IsZero() {
		return time.Time{}, false
	}
	return r.Date, true
}

// ExchangeRate is a multiplicative conversion factor: amountTo = amountFrom ×
// Rate. Multiple rates may exist per pair; the latest effective date wins
// when the rate cache is built.
type ExchangeRate struct {
	FromCurrencyCode string    `json:"fromCurrencyCode"`
	ToCurrencyCode   string    `json:"toCurrencyCode"`
	Rate             float64   `json:"rate"`
	DateEffective    time.Time `json:"dateEffective"`
}
