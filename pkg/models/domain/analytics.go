package domain

// PeriodAnalytics is the full-period summary built by folding every
// ExpenseRecord of a run exactly once. Immutable after construction.
type PeriodAnalytics struct {
	TotalOrders    int
	OrderedAmount  float64 // sum of finished prices over all orders
	RedeemedAmount float64 // sum of finished prices over purchased orders

	PurchaseRate float64 // percent, 0 for an empty period
	ReturnRate   float64 // percent, 0 for an empty period

	FinalTransferAmount float64

	Expenses ExpenseBreakdown

	ByDeliveryType map[DeliveryType]DeliveryTypeStats
	ByCategory     map[string]CategoryStats
}

type ExpenseBreakdown struct {
	Commission CommissionBreakdown
	Logistics  LogisticsBreakdown
	Storage    float64
	Acceptance float64
	Penalties  float64
	Total      float64
}

type CommissionBreakdown struct {
	Total      float64
	ByCategory map[string]float64
}

type LogisticsBreakdown struct {
	Delivered  float64 // outbound legs
	Returned   float64 // return legs
	Total      float64
	AverageKtr float64 // arithmetic mean over records with an outbound leg
}

type DeliveryTypeStats struct {
	Orders   int
	Revenue  float64
	Expenses float64
}

type CategoryStats struct {
	Orders         int
	Revenue        float64
	Commission     float64
	CommissionRate float64 // mean percent applied within the category
}

// ComparableTotals are the settlement-comparable fields shared by the computed
// analytics and the marketplace's own report.
type ComparableTotals struct {
	Revenue       float64
	Commission    float64
	Logistics     float64
	Storage       float64
	Acceptance    float64
	Penalties     float64
	TotalExpenses float64
	ToTransfer    float64
}

// Comparable projects the analytics onto the settlement-comparable fields.
func (a PeriodAnalytics) Comparable() ComparableTotals {
	return ComparableTotals{
		Revenue:       a.OrderedAmount,
		Commission:    a.Expenses.Commission.Total,
		Logistics:     a.Expenses.Logistics.Total,
		Storage:       a.Expenses.Storage,
		Acceptance:    a.Expenses.Acceptance,
		Penalties:     a.Expenses.Penalties,
		TotalExpenses: a.Expenses.Total,
		ToTransfer:    a.FinalTransferAmount,
	}
}
