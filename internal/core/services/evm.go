package services

import (
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/utils/numeric"
)

// EACMethod selects the completion-estimate model.
type EACMethod string

const (
	// EACMethodCPI projects total cost as BAC / CPI.
	EACMethodCPI EACMethod = "cpi"
	// EACMethodACPlusRemaining assumes remaining work proceeds on budget.
	EACMethodACPlusRemaining EACMethod = "acPlusRemaining"
	// EACMethodHybrid weights the remaining work by both indices. This is the
	// default the dashboard uses.
	EACMethodHybrid EACMethod = "hybrid"
)

// PlannedValue computes PV = BAC × plannedPercent / 100.
func PlannedValue(bac, plannedPercent float64) float64 {
	return numeric.Coerce(bac) * numeric.Coerce(plannedPercent) / 100
}

// EarnedValue computes EV = BAC × actualPercent / 100.
func EarnedValue(bac, actualPercent float64) float64 {
	return numeric.Coerce(bac) * numeric.Coerce(actualPercent) / 100
}

// ActualCost sums already-currency-normalized cost amounts.
func ActualCost(amounts []float64) float64 {
	var total float64
	for _, a := range amounts {
		total += numeric.Coerce(a)
	}
	return total
}

// CostVariance computes CV = EV − AC.
func CostVariance(ev, ac float64) float64 {
	return numeric.Coerce(ev) - numeric.Coerce(ac)
}

// ScheduleVariance computes SV = EV − PV.
func ScheduleVariance(ev, pv float64) float64 {
	return numeric.Coerce(ev) - numeric.Coerce(pv)
}

// CostPerformanceIndex computes CPI = EV / AC, 0 when AC is zero.
func CostPerformanceIndex(ev, ac float64) float64 {
	return numeric.SafeDiv(numeric.Coerce(ev), numeric.Coerce(ac))
}

// SchedulePerformanceIndex computes SPI = EV / PV, 0 when PV is zero.
func SchedulePerformanceIndex(ev, pv float64) float64 {
	return numeric.SafeDiv(numeric.Coerce(ev), numeric.Coerce(pv))
}

// EstimateAtCompletion evaluates the selected EAC model. An unknown method
// key falls back to the "cpi" method; a zero index falls back to BAC.
func EstimateAtCompletion(method EACMethod, bac, ac, ev, cpi, spi float64) float64 {
	bac = numeric.Coerce(bac)
	ac = numeric.Coerce(ac)
	ev = numeric.Coerce(ev)
	cpi = numeric.Coerce(cpi)
	spi = numeric.Coerce(spi)

	switch method {
	case EACMethodACPlusRemaining:
		return ac + (bac - ev)
	case EACMethodHybrid:
		if cpi != 0 && spi != 0 {
			return numeric.Coerce(ac + (bac-ev)/(cpi*spi))
		}
		return bac
	case EACMethodCPI:
	default:
		// unknown key: same result as the cpi method
	}
	if cpi != 0 {
		return numeric.Coerce(bac / cpi)
	}
	return bac
}

// EstimateToComplete computes ETC = EAC − AC.
func EstimateToComplete(eac, ac float64) float64 {
	return numeric.Coerce(eac) - numeric.Coerce(ac)
}

// VarianceAtCompletion computes VAC = BAC − EAC.
func VarianceAtCompletion(bac, eac float64) float64 {
	return numeric.Coerce(bac) - numeric.Coerce(eac)
}

// BurnRate computes AC / elapsedPeriods, flooring elapsedPeriods at 1 so an
// empty report window never divides by zero.
func BurnRate(ac float64, elapsedPeriods int) float64 {
	if elapsedPeriods < 1 {
		elapsedPeriods = 1
	}
	return numeric.Coerce(ac) / float64(elapsedPeriods)
}

// NetCashFlow computes incoming − outgoing.
func NetCashFlow(incoming, outgoing float64) float64 {
	return numeric.Coerce(incoming) - numeric.Coerce(outgoing)
}

// ComputeKPISnapshot derives the full KPI snapshot from portfolio totals.
// All monetary inputs must already be in the display currency.
func ComputeKPISnapshot(bac, ac, pv, ev float64, elapsedPeriods int, incoming, outgoing float64) domain.KPISnapshot {
	bac = numeric.Coerce(bac)
	ac = numeric.Coerce(ac)
	pv = numeric.Coerce(pv)
	ev = numeric.Coerce(ev)

	cpi := CostPerformanceIndex(ev, ac)
	spi := SchedulePerformanceIndex(ev, pv)
	eac := EstimateAtCompletion(EACMethodHybrid, bac, ac, ev, cpi, spi)

	return domain.KPISnapshot{
		BAC:         bac,
		AC:          ac,
		PV:          pv,
		EV:          ev,
		CV:          CostVariance(ev, ac),
		SV:          ScheduleVariance(ev, pv),
		CPI:         cpi,
		SPI:         spi,
		EAC:         eac,
		ETC:         EstimateToComplete(eac, ac),
		VAC:         VarianceAtCompletion(bac, eac),
		BurnRate:    BurnRate(ac, elapsedPeriods),
		NetCashFlow: NetCashFlow(incoming, outgoing),
	}
}
