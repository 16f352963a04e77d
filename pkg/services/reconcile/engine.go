// Package reconcile cross-checks the bottom-up expense computation against the
// marketplace's own settlement report and quantifies the difference per field.
package reconcile

import (
	"math"
	"sort"

	"github.com/wb-tools/seller-atlas/pkg/models/domain"
)

// Thresholds are classification policy, in absolute percent. They are tunable,
// not a contract: the significant cutoff matches the 5% materiality rule the
// UI uses for discrepancy highlighting.
type Thresholds struct {
	Exact       float64
	Good        float64
	Fair        float64
	Significant float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Exact: 1, Good: 5, Fair: 15, Significant: 5}
}

type Engine struct {
	thresholds Thresholds
}

func NewEngine(t Thresholds) *Engine {
	return &Engine{thresholds: t}
}

// comparableFields fixes the comparison order so reports are deterministic.
var comparableFields = []struct {
	name string
	get  func(domain.ComparableTotals) float64
}{
	{"revenue", func(t domain.ComparableTotals) float64 { return t.Revenue }},
	{"commission", func(t domain.ComparableTotals) float64 { return t.Commission }},
	{"logistics", func(t domain.ComparableTotals) float64 { return t.Logistics }},
	{"storage", func(t domain.ComparableTotals) float64 { return t.Storage }},
	{"acceptance", func(t domain.ComparableTotals) float64 { return t.Acceptance }},
	{"penalties", func(t domain.ComparableTotals) float64 { return t.Penalties }},
	{"totalExpenses", func(t domain.ComparableTotals) float64 { return t.TotalExpenses }},
	{"toTransfer", func(t domain.ComparableTotals) float64 { return t.ToTransfer }},
}

// Reconcile compares the computed totals against the settlement report.
// For each field: diff = calculated - settlement; percent is diff relative to
// the settlement value, with the zero-denominator convention of 0 when both
// sides are 0 and 100 when only the settlement side is.
func (e *Engine) Reconcile(calculated domain.ComparableTotals, report domain.SettlementReport) domain.ReconciliationResult {
	result := domain.ReconciliationResult{
		Calculated:    calculated,
		WbReport:      report.Totals,
		Discrepancies: make(map[string]domain.FieldDiff, len(comparableFields)),
	}

	var absPercentSum float64
	maxAbsPercent := 0.0
	for _, f := range comparableFields {
		calc := f.get(calculated)
		wb := f.get(report.Totals)
		diff := calc - wb

		var percent float64
		switch {
		case wb != 0:
			percent = diff / wb * 100
		case diff != 0:
			percent = 100
		}

		result.Discrepancies[f.name] = domain.FieldDiff{Diff: diff, Percent: percent}
		absPercentSum += math.Abs(percent)
		if math.Abs(percent) > maxAbsPercent {
			maxAbsPercent = math.Abs(percent)
		}
		if math.Abs(percent) > e.thresholds.Significant {
			result.SignificantDiscrepancies = append(result.SignificantDiscrepancies,
				domain.SignificantDiscrepancy{Field: f.name, Diff: diff, Percent: percent})
		}
	}

	result.OverallAccuracy = math.Max(0, 100-absPercentSum/float64(len(comparableFields)))
	result.MatchQuality = e.classify(maxAbsPercent)

	sort.Slice(result.SignificantDiscrepancies, func(i, j int) bool {
		return math.Abs(result.SignificantDiscrepancies[i].Percent) > math.Abs(result.SignificantDiscrepancies[j].Percent)
	})

	return result
}

func (e *Engine) classify(maxAbsPercent float64) domain.MatchQuality {
	switch {
	case maxAbsPercent <= e.thresholds.Exact:
		return domain.MatchExact
	case maxAbsPercent <= e.thresholds.Good:
		return domain.MatchGood
	case maxAbsPercent <= e.thresholds.Fair:
		return domain.MatchFair
	default:
		return domain.MatchPoor
	}
}
