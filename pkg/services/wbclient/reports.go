package wbclient

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/wb-tools/seller-atlas/pkg/models/domain"
)

const reportEndpoint = "report_detail"

// GetSettlementReport fetches reportDetailByPeriod for the window and folds
// the row-level detail into the aggregate totals used for reconciliation.
// A period with no settlement rows yields (nil, nil): the marketplace has not
// closed the period yet and reconciliation must be skipped, not zero-filled.
func (c *Client) GetSettlementReport(ctx context.Context, from, to time.Time) (*domain.SettlementReport, error) {
	q := url.Values{}
	q.Set("dateFrom", from.Format("2006-01-02"))
	q.Set("dateTo", to.Format("2006-01-02"))

	var rows []reportDetailRow
	u := fmt.Sprintf("%s/api/v5/supplier/reportDetailByPeriod?%s", c.cfg.StatisticsBase, q.Encode())
	if err := c.getJSON(ctx, reportEndpoint, u, &rows); err != nil {
		return nil, fmt.Errorf("fetch settlement report: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	report := &domain.SettlementReport{
		Period:    domain.Period{From: from, To: to},
		RowCount:  len(rows),
		FetchedAt: time.Now().UTC(),
	}
	for _, row := range rows {
		t := &report.Totals
		switch row.DocTypeName {
		case "Продажа", "Sale":
			t.Revenue += row.RetailPriceWithDisc
		case "Возврат", "Return":
			t.Revenue -= row.RetailPriceWithDisc
		}
		t.Commission += row.PpvzSalesCommission
		t.Logistics += row.DeliveryRub
		t.Storage += row.StorageFee
		t.Acceptance += row.Acceptance
		t.Penalties += row.Penalty
		t.ToTransfer += row.PpvzForPay
	}
	t := &report.Totals
	t.TotalExpenses = t.Commission + t.Logistics + t.Storage + t.Acceptance + t.Penalties
	return report, nil
}
