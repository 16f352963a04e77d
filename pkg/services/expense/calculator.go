// Package expense computes the per-order cost breakdown a seller incurs:
// commission, volumetric logistics weighted by the warehouse KTR, storage,
// acceptance and penalties.
package expense

import (
	"math"

	"github.com/wb-tools/seller-atlas/pkg/models/domain"
	"github.com/wb-tools/seller-atlas/pkg/services/tariff"
)

// Calculator turns RawOrders into ExpenseRecords. It is pure computation and
// never suspends; tariff data is handed in by the caller. A Calculator is
// scoped to one analysis run so its assumption tallies describe that run only.
type Calculator struct {
	ref  *ReferenceData
	meta domain.RunMeta
}

func NewCalculator(ref *ReferenceData) *Calculator {
	return &Calculator{ref: ref}
}

// Meta returns the degradation and assumption tallies accumulated so far.
func (c *Calculator) Meta() domain.RunMeta {
	return c.meta
}

// CountSkipped records a malformed raw order that was excluded from the run.
func (c *Calculator) CountSkipped() {
	c.meta.SkippedRecords++
}

// Calculate produces the expense breakdown for one order. entry may be nil
// (unknown warehouse or tariff fetch failure): the neutral coefficient is
// substituted, base tariffs collapse to zero, and the record is tallied as
// degraded rather than failing the run.
//
// All arithmetic stays in full float64 precision. No rounding here; that is
// the API boundary's job.
func (c *Calculator) Calculate(order domain.RawOrder, entry *domain.TariffEntry) domain.ExpenseRecord {
	volume := order.VolumeLiters
	if volume <= 0 {
		volume = c.ref.DefaultVolumeLiters
		c.meta.AssumedVolume++
	}

	var t domain.TariffEntry
	ktr := tariff.NeutralKtr
	if entry != nil {
		t = *entry
		ktr = tariff.Ktr(t, order.DeliveryType)
	} else {
		c.meta.DegradedRecords++
	}

	rate, known := c.ref.CommissionRate(order.Category)
	if !known {
		c.meta.AssumedCommission++
	}
	commission := order.FinishedPrice * rate / 100.0

	outbound := deliveryCost(t, volume) * ktr
	var returnLeg float64
	if order.IsReturned {
		returnLeg = deliveryCost(t, volume) * ktr
	}
	totalLogistics := outbound + returnLeg

	storageDays := order.StorageDays
	if storageDays <= 0 {
		storageDays = c.ref.StorageDefaultDays
		c.meta.AssumedStorageDays++
	}
	storage := storageCost(t, volume) * float64(storageDays)

	acceptance := c.ref.AcceptanceFee(order.Category, volume)

	totalExpenses := commission + totalLogistics + storage + acceptance + order.Penalty

	return domain.ExpenseRecord{
		OrderID:           order.OrderID,
		NmID:              order.NmID,
		Category:          order.Category,
		DeliveryType:      order.DeliveryType,
		FinishedPrice:     order.FinishedPrice,
		Commission:        commission,
		CommissionRate:    rate,
		OutboundLogistics: outbound,
		ReturnLogistics:   returnLeg,
		TotalLogistics:    totalLogistics,
		Ktr:               ktr,
		Storage:           storage,
		Acceptance:        acceptance,
		Penalty:           order.Penalty,
		TotalExpenses:     totalExpenses,
		ToTransfer:        order.FinishedPrice - totalExpenses,
		IsPurchased:       order.IsPurchased,
		IsReturned:        order.IsReturned,
	}
}

// deliveryCost is the two-tier volumetric base tariff: a fixed charge for the
// first liter-equivalent plus a marginal per-liter charge beyond it.
func deliveryCost(t domain.TariffEntry, volumeLiters float64) float64 {
	return t.BoxDeliveryBase + math.Max(0, volumeLiters-1)*t.BoxDeliveryLiter
}

// storageCost is the same two-tier formula on the storage tariff, per day.
func storageCost(t domain.TariffEntry, volumeLiters float64) float64 {
	return t.BoxStorageBase + math.Max(0, volumeLiters-1)*t.BoxStorageLiter
}
