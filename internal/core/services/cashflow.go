package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
)

// Bucket windows shown by the dashboard: the most recent 6 months or the most
// recent 4 quarters.
const (
	monthlyBucketWindow   = 6
	quarterlyBucketWindow = 4
)

// CashFlowView selects the bucketing granularity of the cash-flow series.
type CashFlowView string

const (
	CashFlowMonthly   CashFlowView = "monthly"
	CashFlowQuarterly CashFlowView = "quarterly"
)

const monthKeyLayout = "2006-01"

// MonthKey derives the monthly bucket key (YYYY-MM) of a date.
func MonthKey(date time.Time) string {
	return date.Format(monthKeyLayout)
}

// QuarterKey derives the quarterly bucket key (YYYY-Qn) of a date, mapping a
// month to its quarter by floor((month-1)/3)+1.
func QuarterKey(date time.Time) string {
	return fmt.Sprintf("%04d-Q%d", date.Year(), (int(date.Month())-1)/3+1)
}

type cashBucket struct {
	incoming   float64
	outgoing   float64
	provenance []domain.SourceRef
}

// MonthlyCashFlow buckets the already-filtered records by month and returns
// the most recent 6 buckets. Each record's amount is converted individually
// through conv; invoices contribute their cash-relevant figure (collected
// amount, falling back to billed). Per-bucket provenance retains the exact
// source records for drill-down.
func MonthlyCashFlow(
	invoices []domain.ClientInvoice,
	expenses []domain.Expense,
	payments []domain.ContractorPayment,
	conv *Converter,
	displayCurrency string,
) domain.CashFlowSeries {
	buckets := make(map[string]*cashBucket)
	at := func(key string) *cashBucket {
		b, ok := buckets[key]
		if !ok {
			b = &cashBucket{}
			buckets[key] = b
		}
		return b
	}

	for _, inv := range invoices {
		date, ok := inv.RepresentativeDate()
		if !ok {
			continue
		}
		amount := conv.Convert(inv.CashAmount(), inv.CurrencyCode, displayCurrency)
		b := at(MonthKey(date))
		b.incoming += amount
		b.provenance = append(b.provenance, domain.SourceRef{
			Kind:   domain.SourceInvoice,
			ID:     inv.InvoiceID,
			Label:  inv.Number,
			Amount: amount,
		})
	}
	for _, exp := range expenses {
		date, ok := exp.RepresentativeDate()
		if !ok {
			continue
		}
		amount := conv.Convert(exp.Amount, exp.CurrencyCode, displayCurrency)
		b := at(MonthKey(date))
		b.outgoing += amount
		b.provenance = append(b.provenance, domain.SourceRef{
			Kind:   domain.SourceExpense,
			ID:     exp.ExpenseID,
			Label:  exp.Description,
			Amount: amount,
		})
	}
	for _, pay := range payments {
		date, ok := pay.RepresentativeDate()
		if !ok {
			continue
		}
		amount := conv.Convert(pay.Amount, pay.CurrencyCode, displayCurrency)
		b := at(MonthKey(date))
		b.outgoing += amount
		b.provenance = append(b.provenance, domain.SourceRef{
			Kind:   domain.SourcePayment,
			ID:     pay.PaymentID,
			Label:  pay.ContractorName,
			Amount: amount,
		})
	}

	return seriesFromBuckets(buckets, monthlyBucketWindow)
}

// QuarterlyCashFlow re-buckets an already-computed monthly series into
// quarters (no re-scan of raw records) and keeps the most recent 4 buckets.
// Provenance entries of the merged months are concatenated per quarter.
func QuarterlyCashFlow(monthly domain.CashFlowSeries) domain.CashFlowSeries {
	buckets := make(map[string]*cashBucket)
	for i, label := range monthly.Labels {
		date, err := time.Parse(monthKeyLayout, label)
		if err != nil {
			continue
		}
		key := QuarterKey(date)
		b, ok := buckets[key]
		if !ok {
			b = &cashBucket{}
			buckets[key] = b
		}
		b.incoming += monthly.Incoming[i]
		b.outgoing += monthly.Outgoing[i]
		b.provenance = append(b.provenance, monthly.Provenance[i]...)
	}
	return seriesFromBuckets(buckets, quarterlyBucketWindow)
}

// seriesFromBuckets orders buckets by key (keys are zero-padded so the
// lexical order is chronological) and keeps the most recent window.
func seriesFromBuckets(buckets map[string]*cashBucket, window int) domain.CashFlowSeries {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > window {
		keys = keys[len(keys)-window:]
	}

	series := domain.CashFlowSeries{
		Labels:     make([]string, 0, len(keys)),
		Incoming:   make([]float64, 0, len(keys)),
		Outgoing:   make([]float64, 0, len(keys)),
		Net:        make([]float64, 0, len(keys)),
		Provenance: make([][]domain.SourceRef, 0, len(keys)),
	}
	for _, k := range keys {
		b := buckets[k]
		series.Labels = append(series.Labels, k)
		series.Incoming = append(series.Incoming, b.incoming)
		series.Outgoing = append(series.Outgoing, b.outgoing)
		series.Net = append(series.Net, NetCashFlow(b.incoming, b.outgoing))
		series.Provenance = append(series.Provenance, b.provenance)
	}
	return series
}

// BudgetVsActual compares each phase budget with the expenses booked to it,
// both converted to the display currency. Expenses without a phase
// allocation do not appear in any row.
func BudgetVsActual(
	phases []domain.Phase,
	expenses []domain.Expense,
	conv *Converter,
	projectCurrency, displayCurrency string,
) []domain.BudgetActualRow {
	rows := make([]domain.BudgetActualRow, 0, len(phases))
	for _, phase := range phases {
		row := domain.BudgetActualRow{
			PhaseID: phase.PhaseID,
			WBSCode: phase.WBSCode,
			Name:    phase.Name,
			Budget:  conv.Convert(phase.BAC, projectCurrency, displayCurrency),
		}
		for _, exp := range expenses {
			if exp.PhaseRef() != phase.PhaseID {
				continue
			}
			amount := conv.Convert(exp.Amount, exp.CurrencyCode, displayCurrency)
			row.Actual += amount
			row.Provenance = append(row.Provenance, domain.SourceRef{
				Kind:   domain.SourceExpense,
				ID:     exp.ExpenseID,
				Label:  exp.Description,
				Amount: amount,
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// VarianceRows computes the per-phase variance table {PV, EV, AC, CV, SV},
// every figure already converted to the display currency. Phase PV/EV are
// derived in the native currency and converted per row; expenses are
// converted per record before summing, preserving the dashboard's original
// asymmetric aggregation order.
func VarianceRows(
	phases []domain.Phase,
	expenses []domain.Expense,
	conv *Converter,
	projectCurrency, displayCurrency string,
) []domain.VarianceRow {
	rows := make([]domain.VarianceRow, 0, len(phases))
	for _, phase := range phases {
		pv := conv.Convert(PlannedValue(phase.BAC, phase.PlannedPercent), projectCurrency, displayCurrency)
		ev := conv.Convert(EarnedValue(phase.BAC, phase.ActualPercent), projectCurrency, displayCurrency)
		var ac float64
		for _, exp := range expenses {
			if exp.PhaseRef() != phase.PhaseID {
				continue
			}
			ac += conv.Convert(exp.Amount, exp.CurrencyCode, displayCurrency)
		}
		rows = append(rows, domain.VarianceRow{
			PhaseID: phase.PhaseID,
			WBSCode: phase.WBSCode,
			Name:    phase.Name,
			PV:      pv,
			EV:      ev,
			AC:      ac,
			CV:      CostVariance(ev, ac),
			SV:      ScheduleVariance(ev, pv),
		})
	}
	return rows
}

// ChangeOrderWaterfall builds the bridge [BAC, BAC+co1, BAC+co1+co2, …, EAC]:
// each change order's converted amount is added cumulatively to the running
// BAC, and the final step is the hybrid-method EAC evaluated on portfolio
// totals. Change orders are applied in approval-date order.
func ChangeOrderWaterfall(
	bac float64,
	changeOrders []domain.ChangeOrder,
	eac float64,
	conv *Converter,
	projectCurrency, displayCurrency string,
) []domain.WaterfallStep {
	ordered := make([]domain.ChangeOrder, len(changeOrders))
	copy(ordered, changeOrders)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ApprovedOn.Before(ordered[j].ApprovedOn)
	})

	steps := make([]domain.WaterfallStep, 0, len(ordered)+2)
	running := conv.Convert(bac, projectCurrency, displayCurrency)
	steps = append(steps, domain.WaterfallStep{Label: "BAC", Value: running})
	for _, co := range ordered {
		running += conv.Convert(co.Amount, projectCurrency, displayCurrency)
		steps = append(steps, domain.WaterfallStep{Label: co.Title, Value: running})
	}
	steps = append(steps, domain.WaterfallStep{Label: "EAC", Value: eac})
	return steps
}
