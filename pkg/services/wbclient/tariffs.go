package wbclient

import (
	"context"
	"fmt"
	"time"

	"github.com/wb-tools/seller-atlas/pkg/models/domain"
)

const tariffsEndpoint = "tariffs_box"

// GetBoxTariffs fetches the full warehouse box-tariff table effective today.
// The table is valid for a bounded window; callers must re-fetch rather than
// assume indefinite validity.
func (c *Client) GetBoxTariffs(ctx context.Context) (*domain.BoxTariffs, error) {
	u := fmt.Sprintf("%s/api/v1/tariffs/box?date=%s", c.cfg.CommonBase, time.Now().UTC().Format("2006-01-02"))

	var resp boxTariffsResponse
	if err := c.getJSON(ctx, tariffsEndpoint, u, &resp); err != nil {
		return nil, fmt.Errorf("fetch box tariffs: %w", err)
	}

	data := resp.Response.Data
	tariffs := &domain.BoxTariffs{
		WarehouseList: make([]domain.TariffEntry, 0, len(data.WarehouseList)),
	}
	if t, err := parseWBTime(data.DtTillMax); err == nil {
		tariffs.ValidUntil = t
	}
	if t, err := parseWBTime(data.DtNextBox); err == nil {
		tariffs.NextUpdate = t
	}

	for _, w := range data.WarehouseList {
		entry, err := mapTariffEntry(w)
		if err != nil {
			return nil, fmt.Errorf("warehouse %q: %w", w.WarehouseName, err)
		}
		entry.ValidUntil = tariffs.ValidUntil
		tariffs.WarehouseList = append(tariffs.WarehouseList, entry)
	}
	return tariffs, nil
}

func mapTariffEntry(w boxTariffEntries) (domain.TariffEntry, error) {
	entry := domain.TariffEntry{WarehouseName: w.WarehouseName}

	fields := []struct {
		raw string
		dst *float64
	}{
		{w.BoxDeliveryCoefExpr, &entry.BoxDeliveryCoefExpr},
		{w.BoxDeliveryMarketplaceCoefExpr, &entry.BoxDeliveryMarketplaceCoefExpr},
		{w.BoxDeliveryBase, &entry.BoxDeliveryBase},
		{w.BoxDeliveryLiter, &entry.BoxDeliveryLiter},
		{w.BoxStorageBase, &entry.BoxStorageBase},
		{w.BoxStorageLiter, &entry.BoxStorageLiter},
	}
	for _, f := range fields {
		v, err := parseDecimal(f.raw)
		if err != nil {
			return domain.TariffEntry{}, err
		}
		*f.dst = v
	}
	return entry, nil
}
