package domain

import "time"

// SettlementReport is the marketplace's own aggregate statement for a period,
// the ground truth the computed analytics are reconciled against.
type SettlementReport struct {
	Period Period
	Totals ComparableTotals

	RowCount  int
	FetchedAt time.Time
}

// MatchQuality classifies how closely the bottom-up computation tracks the
// settlement report.
type MatchQuality string

const (
	MatchExact MatchQuality = "EXACT"
	MatchGood  MatchQuality = "GOOD"
	MatchFair  MatchQuality = "FAIR"
	MatchPoor  MatchQuality = "POOR"
)

// FieldDiff is the discrepancy of one comparable field.
type FieldDiff struct {
	Diff    float64 // calculated - settlement
	Percent float64 // Diff / settlement x 100; 0 when both are 0, 100 when only settlement is 0
}

// SignificantDiscrepancy is a field whose discrepancy crossed the materiality
// threshold, surfaced for the UI sorted descending by |Percent|.
type SignificantDiscrepancy struct {
	Field   string
	Diff    float64
	Percent float64
}

// ReconciliationResult compares the computed aggregates against the settlement
// report field by field. Never mutated after construction.
type ReconciliationResult struct {
	Calculated ComparableTotals
	WbReport   ComparableTotals

	Discrepancies map[string]FieldDiff

	MatchQuality    MatchQuality
	OverallAccuracy float64 // percent, floored at 0

	SignificantDiscrepancies []SignificantDiscrepancy
}
