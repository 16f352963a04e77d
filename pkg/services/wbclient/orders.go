package wbclient

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-tools/seller-atlas/pkg/models/domain"
)

const ordersEndpoint = "supplier_sales"

// GetOrders fetches the raw order/sale records for [from, to] and validates
// them into domain values. Rows the feed returns outside the window are
// filtered client-side; the API keys its window on lastChangeDate, not on the
// sale date.
func (c *Client) GetOrders(ctx context.Context, from, to time.Time) ([]domain.RawOrder, error) {
	q := url.Values{}
	q.Set("dateFrom", from.Format("2006-01-02"))
	q.Set("flag", "0")

	var rows []supplierOrder
	u := fmt.Sprintf("%s/api/v1/supplier/sales?%s", c.cfg.StatisticsBase, q.Encode())
	if err := c.getJSON(ctx, ordersEndpoint, u, &rows); err != nil {
		return nil, fmt.Errorf("fetch supplier sales: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	orders := make([]domain.RawOrder, 0, len(rows))
	for _, row := range rows {
		order, err := mapSupplierOrder(row)
		if err != nil {
			// Malformed rows are the orchestrator's problem to tally; here we
			// only log and pass the zero-ID record through so the run can
			// count it as skipped.
			logger.Warn().Err(err).Str("srid", row.Srid).Msg("malformed order row")
			orders = append(orders, domain.RawOrder{})
			continue
		}
		if order.OrderDate.Before(from) || order.OrderDate.After(to.Add(24*time.Hour)) {
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func mapSupplierOrder(row supplierOrder) (domain.RawOrder, error) {
	orderDate, err := parseWBTime(row.Date)
	if err != nil {
		return domain.RawOrder{}, fmt.Errorf("order %s: %w", row.Srid, err)
	}

	var saleDate *time.Time
	if row.SaleDate != "" {
		if t, err := parseWBTime(row.SaleDate); err == nil {
			saleDate = &t
		}
	}

	// Sale IDs starting with "R" mark return legs in the realization feed.
	isReturned := len(row.SaleID) > 0 && row.SaleID[0] == 'R'
	isPurchased := !isReturned && !row.IsCancel && row.SaleID != ""

	return domain.RawOrder{
		OrderID:       row.Srid,
		NmID:          row.NmID,
		Category:      row.Subject,
		DeliveryType:  mapDeliveryType(row.DeliveryType, row.WarehouseType),
		WarehouseName: row.WarehouseName,
		FinishedPrice: row.FinishedPrice,
		VolumeLiters:  row.Volume,
		StorageDays:   row.StorageDays,
		Penalty:       row.Penalty,
		IsPurchased:   isPurchased,
		IsReturned:    isReturned,
		OrderDate:     orderDate,
		SaleDate:      saleDate,
	}, nil
}

func mapDeliveryType(deliveryType, warehouseType string) domain.DeliveryType {
	switch deliveryType {
	case "fbs", "FBS":
		return domain.DeliveryFBS
	case "dbs", "DBS":
		return domain.DeliveryDBS
	case "fbo", "FBO":
		return domain.DeliveryFBO
	}
	// Older feed rows carry only the warehouse type.
	if warehouseType == "Склад продавца" {
		return domain.DeliveryFBS
	}
	return domain.DeliveryFBO
}
