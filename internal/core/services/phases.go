package services

import "github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"

// PhaseTotals are portfolio-level sums over a (possibly filtered) phase
// collection, all in the project's native currency. The display-currency
// conversion happens once per total, after aggregation.
type PhaseTotals struct {
	BAC float64
	PV  float64
	EV  float64
}

// AggregatePhases reduces a phase collection to portfolio totals.
func AggregatePhases(phases []domain.Phase) PhaseTotals {
	var totals PhaseTotals
	for _, p := range phases {
		totals.BAC += p.BAC
		totals.PV += PlannedValue(p.BAC, p.PlannedPercent)
		totals.EV += EarnedValue(p.BAC, p.ActualPercent)
	}
	return totals
}
