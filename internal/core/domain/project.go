package domain

import "time"

// Project is the root entity of an analysis session. It is loaded once per
// project selection and treated as an immutable snapshot; selecting a
// different project id resets all downstream derived state.
type Project struct {
	ProjectID    string    `json:"projectID"`
	Name         string    `json:"name"`
	CurrencyCode string    `json:"currencyCode"` // native currency, e.g. "SAR"
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	BAC          float64   `json:"bac"` // budget at completion, native currency
	VATRate      float64   `json:"vatRate"`
}

// Phase is a WBS element of a project. BAC is the budget allocated to this
// phase in the parent project's native currency; the sum across phases is not
// required to equal the project BAC (change orders reconcile the difference).
type Phase struct {
	PhaseID        string    `json:"phaseID"`
	ProjectID      string    `json:"projectID"`
	WBSCode        string    `json:"wbsCode"`
	Name           string    `json:"name"`
	PlannedStart   time.Time `json:"plannedStart"`
	PlannedEnd     time.Time `json:"plannedEnd"`
	PlannedPercent float64   `json:"plannedPercent"` // [0,100]
	ActualPercent  float64   `json:"actualPercent"`  // [0,100]
	BAC            float64   `json:"bac"`
}

// PhaseRef implements the phase-scoped filter contract; a phase is scoped to
// itself so phase-subset filters apply directly to phase collections.
func (p Phase) PhaseRef() string { return p.PhaseID }

// ChangeOrder is a signed budget amendment. It participates only in the EAC
// waterfall: baseline BAC plus the running sum of change orders bridges to EAC.
type ChangeOrder struct {
	ChangeOrderID string    `json:"changeOrderID"`
	ProjectID     string    `json:"projectID"`
	Title         string    `json:"title"`
	Amount        float64   `json:"amount"` // signed: increase or decrease
	ApprovedOn    time.Time `json:"approvedOn"`
}
