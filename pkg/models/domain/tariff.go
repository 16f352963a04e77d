package domain

import "time"

// TariffEntry is one warehouse's box tariff, valid over [ValidFrom, ValidUntil).
// Coefficient fields are percentage-scaled the way the marketplace publishes
// them: a value of 150 means a x1.50 multiplier. The tariff resolver owns the
// divide-by-100; everything downstream works with the decimal factor.
type TariffEntry struct {
	WarehouseName string

	BoxDeliveryCoefExpr            float64 // outbound KTR, FBO
	BoxDeliveryMarketplaceCoefExpr float64 // KTR for seller-shipped (FBS/DBS) parcels

	BoxDeliveryBase  float64 // charge for the first liter-equivalent
	BoxDeliveryLiter float64 // marginal charge per liter beyond the first

	BoxStorageBase  float64 // per-day storage, first liter
	BoxStorageLiter float64 // per-day storage, each extra liter

	ValidFrom  time.Time
	ValidUntil time.Time
}

// BoxTariffs is the full warehouse tariff table as fetched from the
// marketplace tariff endpoint.
type BoxTariffs struct {
	WarehouseList []TariffEntry
	ValidUntil    time.Time
	NextUpdate    time.Time
}

// Warehouse returns the entry for an exact warehouse name match, or nil.
// Callers must treat nil as "use the neutral coefficient", not as a failure.
func (t *BoxTariffs) Warehouse(name string) *TariffEntry {
	if t == nil {
		return nil
	}
	for i := range t.WarehouseList {
		if t.WarehouseList[i].WarehouseName == name {
			return &t.WarehouseList[i]
		}
	}
	return nil
}
