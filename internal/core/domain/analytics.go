package domain

// KPISnapshot bundles the full earned-value formula set plus its raw inputs
// into one immutable record. It is the unit passed between the aggregators,
// the scenario simulator and the display layer. All values are in the active
// display currency.
type KPISnapshot struct {
	BAC         float64 `json:"bac"`
	AC          float64 `json:"ac"`
	PV          float64 `json:"pv"`
	EV          float64 `json:"ev"`
	CV          float64 `json:"cv"`
	SV          float64 `json:"sv"`
	CPI         float64 `json:"cpi"`
	SPI         float64 `json:"spi"`
	EAC         float64 `json:"eac"`
	ETC         float64 `json:"etc"`
	VAC         float64 `json:"vac"`
	BurnRate    float64 `json:"burnRate"`
	NetCashFlow float64 `json:"netCashFlow"`
}

// RatePair identifies an ordered currency pair for which no exchange rate was
// available in either direction during an evaluation.
type RatePair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// KPIReport is a KPI snapshot plus the data-quality flags raised while
// producing it.
type KPIReport struct {
	Snapshot         KPISnapshot `json:"snapshot"`
	MissingRatePairs []RatePair  `json:"missingRatePairs"`
}

// SourceKind tags the record type behind a provenance entry.
type SourceKind string

const (
	SourceExpense     SourceKind = "expense"
	SourceInvoice     SourceKind = "invoice"
	SourcePayment     SourceKind = "payment"
	SourceChangeOrder SourceKind = "changeOrder"
)

// SourceRef is one drill-down provenance entry: the raw source record that
// contributed to an aggregated value, with its converted contribution.
type SourceRef struct {
	Kind   SourceKind `json:"kind"`
	ID     string     `json:"id"`
	Label  string     `json:"label"`
	Amount float64    `json:"amount"` // converted to display currency
}

// CashFlowSeries is the time-bucketed projection consumed by the chart layer.
// Provenance holds, per bucket, the source records that contributed to either
// flow of that bucket.
type CashFlowSeries struct {
	Labels     []string      `json:"labels"`
	Incoming   []float64     `json:"incoming"`
	Outgoing   []float64     `json:"outgoing"`
	Net        []float64     `json:"net"`
	Provenance [][]SourceRef `json:"provenance"`
}

// BudgetActualRow compares a phase budget against the expenses booked to it.
type BudgetActualRow struct {
	PhaseID    string      `json:"phaseID"`
	WBSCode    string      `json:"wbsCode"`
	Name       string      `json:"name"`
	Budget     float64     `json:"budget"`
	Actual     float64     `json:"actual"`
	Provenance []SourceRef `json:"provenance"`
}

// VarianceRow is one row of the per-phase variance table, already converted
// to the active display currency.
type VarianceRow struct {
	PhaseID string  `json:"phaseID"`
	WBSCode string  `json:"wbsCode"`
	Name    string  `json:"name"`
	PV      float64 `json:"pv"`
	EV      float64 `json:"ev"`
	AC      float64 `json:"ac"`
	CV      float64 `json:"cv"`
	SV      float64 `json:"sv"`
}

// WaterfallStep is one bar of the change-order waterfall: the running BAC
// after each change order, bridging baseline BAC to EAC.
type WaterfallStep struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ScenarioAdjustments are the four what-if slider parameters.
type ScenarioAdjustments struct {
	MaterialsPct float64 `json:"materialsPct"`
	LaborPct     float64 `json:"laborPct"`
	ScopePct     float64 `json:"scopePct"`
	DelayDays    int     `json:"delayDays"`
}

// ScenarioBaseline is the KPI slice the simulator perturbs.
type ScenarioBaseline struct {
	BAC float64 `json:"bac"`
	AC  float64 `json:"ac"`
	EV  float64 `json:"ev"`
	PV  float64 `json:"pv"`
	CPI float64 `json:"cpi"`
	SPI float64 `json:"spi"`
}

// ScenarioKPIs are the derived figures reported for both sides of a
// simulation.
type ScenarioKPIs struct {
	EAC float64 `json:"eac"`
	ETC float64 `json:"etc"`
	VAC float64 `json:"vac"`
	SPI float64 `json:"spi"`
	CPI float64 `json:"cpi"`
}

// ScenarioResult is the side-by-side output of the what-if engine.
type ScenarioResult struct {
	Baseline ScenarioKPIs `json:"baseline"`
	Scenario ScenarioKPIs `json:"scenario"`
}

// ProjectSnapshot is the full immutable record set of one project selection,
// loaded as a single logical unit from the data provider.
type ProjectSnapshot struct {
	Project      Project
	Phases       []Phase
	Expenses     []Expense
	Invoices     []ClientInvoice
	Payments     []ContractorPayment
	DailyReports []DailyReport
	ChangeOrders []ChangeOrder
}
