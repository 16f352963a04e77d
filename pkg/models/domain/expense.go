package domain

// ExpenseRecord is the computed financial breakdown for one RawOrder. All
// monetary values stay in full float64 precision; rounding happens only in the
// API adapters.
//
// Invariants:
//
//	TotalExpenses = Commission + TotalLogistics + Storage + Acceptance + Penalty
//	ToTransfer    = FinishedPrice - TotalExpenses (may be negative, never clamped)
type ExpenseRecord struct {
	OrderID       string
	NmID          int64
	Category      string
	DeliveryType  DeliveryType
	FinishedPrice float64

	Commission     float64
	CommissionRate float64 // percent actually applied

	OutboundLogistics float64
	ReturnLogistics   float64 // 0 unless the order was returned
	TotalLogistics    float64
	Ktr               float64 // coefficient actually applied

	Storage    float64
	Acceptance float64
	Penalty    float64

	TotalExpenses float64
	ToTransfer    float64

	IsPurchased bool
	IsReturned  bool
}

// RunMeta counts the quality degradations and substituted assumptions of one
// analysis run, surfaced as response metadata so fallbacks stay auditable.
type RunMeta struct {
	DegradedRecords    int // neutral KTR substituted (missing warehouse or tariff)
	SkippedRecords     int // malformed raw orders excluded from all totals
	AssumedStorageDays int // records where the storage-duration default was used
	AssumedVolume      int // records where the package-volume default was used
	AssumedCommission  int // records priced with the fallback commission rate
}
