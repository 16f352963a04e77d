package domain

import "time"

// DeliveryType is the fulfillment model a sale went through. It decides which
// logistics coefficient applies to the order's warehouse tariff.
type DeliveryType string

const (
	DeliveryFBO DeliveryType = "FBO" // fulfilled from a marketplace warehouse
	DeliveryFBS DeliveryType = "FBS" // fulfilled by the seller, shipped via marketplace
	DeliveryDBS DeliveryType = "DBS" // delivered by the seller directly
)

// RawOrder is one order/sale record from the marketplace statistics feed,
// validated at the ingestion boundary. It is never persisted; only the derived
// ExpenseRecord and the cached response survive a run.
type RawOrder struct {
	OrderID       string
	NmID          int64
	Category      string
	DeliveryType  DeliveryType
	WarehouseName string

	// FinishedPrice is the buyer-paid price after marketplace discounts.
	FinishedPrice float64

	// VolumeLiters is the declared package volume. Zero means the feed did not
	// carry it and the calculator substitutes its configured default.
	VolumeLiters float64

	// StorageDays is how long the item sat in the warehouse. Zero means unknown.
	StorageDays int

	// Penalty is a marketplace-imposed fine attached to this order, if any.
	Penalty float64

	IsPurchased bool
	IsReturned  bool

	OrderDate time.Time
	SaleDate  *time.Time
}

// Valid reports whether the record carries the fields the expense calculator
// cannot substitute. Invalid records are skipped and tallied, never fatal.
func (o RawOrder) Valid() bool {
	return o.OrderID != "" && !o.OrderDate.IsZero() && !(o.IsPurchased && o.IsReturned)
}

// Period is a half-open analysis window [From, To].
type Period struct {
	From time.Time
	To   time.Time
}

func (p Period) Days() int {
	return int(p.To.Sub(p.From).Hours() / 24)
}
