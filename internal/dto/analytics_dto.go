package dto

import (
	"strings"
	"time"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
	portssvc "github.com/JawdatSaleh/ContractorPro-sub000/internal/core/ports/services"
)

// AnalyticsFilterQuery binds the common analytics query parameters. The
// date fields are inclusive bounds on the record's representative date.
type AnalyticsFilterQuery struct {
	Phases   string `form:"phases"`
	Status   string `form:"status" binding:"omitempty,oneof=all draft sent paid overdue partial"`
	Currency string `form:"currency" binding:"omitempty,currencycode"`
	From     string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	View     string `form:"view" binding:"omitempty,oneof=monthly quarterly"`
}

// ToAnalyticsQuery converts bound query params into the service-port query.
// Date strings were already validated by binding, so parse errors cannot
// occur here.
func (q AnalyticsFilterQuery) ToAnalyticsQuery() portssvc.AnalyticsQuery {
	out := portssvc.AnalyticsQuery{
		Filters: domain.Filters{
			InvoiceStatus: domain.InvoiceStatus(q.Status),
			CurrencyCode:  strings.ToUpper(q.Currency),
		},
	}
	if q.Phases != "" {
		for _, id := range strings.Split(q.Phases, ",") {
			if id = strings.TrimSpace(id); id != "" {
				out.SelectedPhaseIDs = append(out.SelectedPhaseIDs, id)
			}
		}
	}
	if q.From != "" {
		from, _ := time.Parse("2006-01-02", q.From)
		out.Filters.DateFrom = &from
	}
	if q.To != "" {
		to, _ := time.Parse("2006-01-02", q.To)
		out.Filters.DateTo = &to
	}
	return out
}

// RatePairResponse is a currency pair that had no usable exchange rate.
type RatePairResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// KPIResponse is the KPI snapshot payload for one (project, filter)
// evaluation, plus data-quality flags.
type KPIResponse struct {
	BAC              float64            `json:"bac"`
	AC               float64            `json:"ac"`
	PV               float64            `json:"pv"`
	EV               float64            `json:"ev"`
	CV               float64            `json:"cv"`
	SV               float64            `json:"sv"`
	CPI              float64            `json:"cpi"`
	SPI              float64            `json:"spi"`
	EAC              float64            `json:"eac"`
	ETC              float64            `json:"etc"`
	VAC              float64            `json:"vac"`
	BurnRate         float64            `json:"burnRate"`
	NetCashFlow      float64            `json:"netCashFlow"`
	MissingRatePairs []RatePairResponse `json:"missingRatePairs"`
}

// ToKPIResponse converts a domain KPI report to its response DTO.
func ToKPIResponse(report *domain.KPIReport) KPIResponse {
	resp := KPIResponse{
		BAC:              report.Snapshot.BAC,
		AC:               report.Snapshot.AC,
		PV:               report.Snapshot.PV,
		EV:               report.Snapshot.EV,
		CV:               report.Snapshot.CV,
		SV:               report.Snapshot.SV,
		CPI:              report.Snapshot.CPI,
		SPI:              report.Snapshot.SPI,
		EAC:              report.Snapshot.EAC,
		ETC:              report.Snapshot.ETC,
		VAC:              report.Snapshot.VAC,
		BurnRate:         report.Snapshot.BurnRate,
		NetCashFlow:      report.Snapshot.NetCashFlow,
		MissingRatePairs: make([]RatePairResponse, 0, len(report.MissingRatePairs)),
	}
	for _, p := range report.MissingRatePairs {
		resp.MissingRatePairs = append(resp.MissingRatePairs, RatePairResponse{From: p.From, To: p.To})
	}
	return resp
}

// SourceRefResponse is one drill-down provenance entry.
type SourceRefResponse struct {
	Kind   string  `json:"kind"`
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// CashFlowResponse is the time-bucketed series payload.
type CashFlowResponse struct {
	Labels     []string              `json:"labels"`
	Incoming   []float64             `json:"incoming"`
	Outgoing   []float64             `json:"outgoing"`
	Net        []float64             `json:"net"`
	Provenance [][]SourceRefResponse `json:"provenance"`
}

func toSourceRefResponses(refs []domain.SourceRef) []SourceRefResponse {
	out := make([]SourceRefResponse, 0, len(refs))
	for _, ref := range refs {
		out = append(out, SourceRefResponse{
			Kind:   string(ref.Kind),
			ID:     ref.ID,
			Label:  ref.Label,
			Amount: ref.Amount,
		})
	}
	return out
}

// ToCashFlowResponse converts a domain cash-flow series to its response DTO.
func ToCashFlowResponse(series *domain.CashFlowSeries) CashFlowResponse {
	resp := CashFlowResponse{
		Labels:     series.Labels,
		Incoming:   series.Incoming,
		Outgoing:   series.Outgoing,
		Net:        series.Net,
		Provenance: make([][]SourceRefResponse, 0, len(series.Provenance)),
	}
	for _, refs := range series.Provenance {
		resp.Provenance = append(resp.Provenance, toSourceRefResponses(refs))
	}
	return resp
}

// BudgetActualRowResponse is one row of the budget-vs-actual comparison.
type BudgetActualRowResponse struct {
	PhaseID    string              `json:"phaseID"`
	WBSCode    string              `json:"wbsCode"`
	Name       string              `json:"name"`
	Budget     float64             `json:"budget"`
	Actual     float64             `json:"actual"`
	Provenance []SourceRefResponse `json:"provenance"`
}

// ToBudgetActualResponse converts domain budget-vs-actual rows.
func ToBudgetActualResponse(rows []domain.BudgetActualRow) []BudgetActualRowResponse {
	out := make([]BudgetActualRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, BudgetActualRowResponse{
			PhaseID:    row.PhaseID,
			WBSCode:    row.WBSCode,
			Name:       row.Name,
			Budget:     row.Budget,
			Actual:     row.Actual,
			Provenance: toSourceRefResponses(row.Provenance),
		})
	}
	return out
}

// VarianceRowResponse is one row of the per-phase variance table.
type VarianceRowResponse struct {
	PhaseID string  `json:"phaseID"`
	WBSCode string  `json:"wbsCode"`
	Name    string  `json:"name"`
	PV      float64 `json:"pv"`
	EV      float64 `json:"ev"`
	AC      float64 `json:"ac"`
	CV      float64 `json:"cv"`
	SV      float64 `json:"sv"`
}

// ToVarianceResponse converts domain variance rows.
func ToVarianceResponse(rows []domain.VarianceRow) []VarianceRowResponse {
	out := make([]VarianceRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, VarianceRowResponse{
			PhaseID: row.PhaseID,
			WBSCode: row.WBSCode,
			Name:    row.Name,
			PV:      row.PV,
			EV:      row.EV,
			AC:      row.AC,
			CV:      row.CV,
			SV:      row.SV,
		})
	}
	return out
}

// WaterfallStepResponse is one bar of the change-order waterfall.
type WaterfallStepResponse struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ToWaterfallResponse converts domain waterfall steps.
func ToWaterfallResponse(steps []domain.WaterfallStep) []WaterfallStepResponse {
	out := make([]WaterfallStepResponse, 0, len(steps))
	for _, step := range steps {
		out = append(out, WaterfallStepResponse{Label: step.Label, Value: step.Value})
	}
	return out
}

// ScenarioRequest carries the four what-if adjustment parameters.
type ScenarioRequest struct {
	MaterialsPct float64 `json:"materialsPct" binding:"gte=-100,lte=500"`
	LaborPct     float64 `json:"laborPct" binding:"gte=-100,lte=500"`
	ScopePct     float64 `json:"scopePct" binding:"gte=-100,lte=500"`
	DelayDays    int     `json:"delayDays" binding:"gte=-365,lte=3650"`
}

// ToAdjustments converts the request to domain adjustments.
func (r ScenarioRequest) ToAdjustments() domain.ScenarioAdjustments {
	return domain.ScenarioAdjustments{
		MaterialsPct: r.MaterialsPct,
		LaborPct:     r.LaborPct,
		ScopePct:     r.ScopePct,
		DelayDays:    r.DelayDays,
	}
}

// ScenarioKPIsResponse is one side of the what-if comparison.
type ScenarioKPIsResponse struct {
	EAC float64 `json:"eac"`
	ETC float64 `json:"etc"`
	VAC float64 `json:"vac"`
	SPI float64 `json:"spi"`
	CPI float64 `json:"cpi"`
}

// ScenarioResponse is the side-by-side what-if payload.
type ScenarioResponse struct {
	Baseline ScenarioKPIsResponse `json:"baseline"`
	Scenario ScenarioKPIsResponse `json:"scenario"`
}

// ToScenarioResponse converts a domain scenario result.
func ToScenarioResponse(result *domain.ScenarioResult) ScenarioResponse {
	convert := func(k domain.ScenarioKPIs) ScenarioKPIsResponse {
		return ScenarioKPIsResponse{EAC: k.EAC, ETC: k.ETC, VAC: k.VAC, SPI: k.SPI, CPI: k.CPI}
	}
	return ScenarioResponse{
		Baseline: convert(result.Baseline),
		Scenario: convert(result.Scenario),
	}
}
