package domain

import "time"

// Filters are the active record filters of an analysis session.
// InvoiceStatusAll and a "" currency mean "no restriction"; nil date bounds
// are open-ended.
type Filters struct {
	InvoiceStatus InvoiceStatus `json:"invoiceStatus"`
	CurrencyCode  string        `json:"currencyCode"` // display currency; "" = project native
	DateFrom      *time.Time    `json:"dateFrom,omitempty"`
	DateTo        *time.Time    `json:"dateTo,omitempty"`
}

// SessionSnapshot is the full, consistent view of the analysis session state
// handed to observers on every mutation. Observers never see partial state.
type SessionSnapshot struct {
	Language         string   `json:"language"`
	ProjectID        string   `json:"projectID"`
	SelectedPhaseIDs []string `json:"selectedPhaseIDs"`
	Filters          Filters  `json:"filters"`
	RateCount        int      `json:"rateCount"`
	Generation       uint64   `json:"generation"`
}
