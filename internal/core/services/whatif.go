package services

import (
	"math"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/utils/numeric"
)

// Schedule-delay model constants: each delay day erodes SPI by one point,
// floored so the scenario never degrades below half pace.
const (
	spiErosionPerDelayDay = 0.01
	scenarioSPIFloor      = 0.5
)

// SimulateScenario is the what-if engine: a deterministic pure function of a
// baseline KPI slice and four adjustment parameters. It performs no I/O and
// holds no state, so it can be driven from sliders, tests or batch scenarios
// alike.
//
// Model:
//   - material and labor adjustments compound on AC;
//   - the scope adjustment scales BAC and EV;
//   - positive delay erodes SPI (negative delay does not improve it);
//   - scenario EV is additionally damped by min(1, scenarioSPI);
//   - scenario CPI re-derives from scenario EV/AC, falling back to the
//     baseline CPI when the division is invalid.
//
// Both sides are completed with the hybrid EAC method for side-by-side
// comparison.
func SimulateScenario(baseline domain.ScenarioBaseline, adj domain.ScenarioAdjustments) domain.ScenarioResult {
	bac := numeric.Coerce(baseline.BAC)
	ac := numeric.Coerce(baseline.AC)
	ev := numeric.Coerce(baseline.EV)
	cpi := numeric.Coerce(baseline.CPI)
	spi := numeric.Coerce(baseline.SPI)

	materialFactor := 1 + numeric.Coerce(adj.MaterialsPct)/100
	laborFactor := 1 + numeric.Coerce(adj.LaborPct)/100
	scopeFactor := 1 + numeric.Coerce(adj.ScopePct)/100

	scenarioAC := ac * materialFactor * laborFactor
	scenarioBAC := bac * scopeFactor

	// Negative delay does not improve the schedule in this model, and the
	// EV damping only engages when a delay actually eroded the SPI; with no
	// delay the scenario must reduce to the baseline.
	scenarioSPI := spi
	scenarioEV := ev * scopeFactor
	if adj.DelayDays > 0 {
		scenarioSPI = math.Max(spi-float64(adj.DelayDays)*spiErosionPerDelayDay, scenarioSPIFloor)
		scenarioEV *= math.Min(1, scenarioSPI)
	}

	scenarioCPI := cpi
	if scenarioAC != 0 {
		scenarioCPI = scenarioEV / scenarioAC
	}

	return domain.ScenarioResult{
		Baseline: completeScenarioKPIs(bac, ac, ev, cpi, spi),
		Scenario: completeScenarioKPIs(scenarioBAC, scenarioAC, scenarioEV, scenarioCPI, scenarioSPI),
	}
}

func completeScenarioKPIs(bac, ac, ev, cpi, spi float64) domain.ScenarioKPIs {
	eac := EstimateAtCompletion(EACMethodHybrid, bac, ac, ev, cpi, spi)
	return domain.ScenarioKPIs{
		EAC: eac,
		ETC: EstimateToComplete(eac, ac),
		VAC: VarianceAtCompletion(bac, eac),
		SPI: spi,
		CPI: cpi,
	}
}
