// Package analytics folds per-order expense records into the full-period
// summary. Pure, synchronous, total over its input; it calls nothing external
// and produces identical output for identical input.
package analytics

import "github.com/wb-tools/seller-atlas/pkg/models/domain"

// accumulator is the mutable working state of one fold. It never escapes
// Aggregate; callers only see the immutable PeriodAnalytics built from it.
type accumulator struct {
	totalOrders    int
	purchased      int
	returned       int
	orderedAmount  float64
	redeemedAmount float64
	toTransfer     float64

	commissionTotal float64
	byCatCommission map[string]float64
	delivered       float64
	returnedLog     float64
	ktrSum          float64
	ktrCount        int
	storage         float64
	acceptance      float64
	penalties       float64

	byDelivery map[domain.DeliveryType]domain.DeliveryTypeStats
	byCategory map[string]categoryAcc
}

type categoryAcc struct {
	orders     int
	revenue    float64
	commission float64
	rateSum    float64
}

// Aggregate computes the period summary in a single pass over records.
// An empty input yields a zero-valued summary with zero rates, never NaN.
func Aggregate(records []domain.ExpenseRecord) domain.PeriodAnalytics {
	acc := accumulator{
		byCatCommission: make(map[string]float64),
		byDelivery:      make(map[domain.DeliveryType]domain.DeliveryTypeStats),
		byCategory:      make(map[string]categoryAcc),
	}

	for _, r := range records {
		acc.totalOrders++
		acc.orderedAmount += r.FinishedPrice
		acc.toTransfer += r.ToTransfer
		if r.IsPurchased {
			acc.purchased++
			acc.redeemedAmount += r.FinishedPrice
		}
		if r.IsReturned {
			acc.returned++
		}

		acc.commissionTotal += r.Commission
		acc.byCatCommission[r.Category] += r.Commission
		acc.delivered += r.OutboundLogistics
		acc.returnedLog += r.ReturnLogistics
		// Every record has an outbound leg, so every record counts once here.
		acc.ktrSum += r.Ktr
		acc.ktrCount++
		acc.storage += r.Storage
		acc.acceptance += r.Acceptance
		acc.penalties += r.Penalty

		dt := acc.byDelivery[r.DeliveryType]
		dt.Orders++
		dt.Revenue += r.FinishedPrice
		dt.Expenses += r.TotalExpenses
		acc.byDelivery[r.DeliveryType] = dt

		cat := acc.byCategory[r.Category]
		cat.orders++
		cat.revenue += r.FinishedPrice
		cat.commission += r.Commission
		cat.rateSum += r.CommissionRate
		acc.byCategory[r.Category] = cat
	}

	return acc.finish()
}

func (acc accumulator) finish() domain.PeriodAnalytics {
	result := domain.PeriodAnalytics{
		TotalOrders:         acc.totalOrders,
		OrderedAmount:       acc.orderedAmount,
		RedeemedAmount:      acc.redeemedAmount,
		FinalTransferAmount: acc.toTransfer,
		ByDeliveryType:      acc.byDelivery,
		ByCategory:          make(map[string]domain.CategoryStats, len(acc.byCategory)),
	}

	if acc.totalOrders > 0 {
		result.PurchaseRate = float64(acc.purchased) / float64(acc.totalOrders) * 100
		result.ReturnRate = float64(acc.returned) / float64(acc.totalOrders) * 100
	}

	var avgKtr float64
	if acc.ktrCount > 0 {
		avgKtr = acc.ktrSum / float64(acc.ktrCount)
	}

	logisticsTotal := acc.delivered + acc.returnedLog
	result.Expenses = domain.ExpenseBreakdown{
		Commission: domain.CommissionBreakdown{
			Total:      acc.commissionTotal,
			ByCategory: acc.byCatCommission,
		},
		Logistics: domain.LogisticsBreakdown{
			Delivered:  acc.delivered,
			Returned:   acc.returnedLog,
			Total:      logisticsTotal,
			AverageKtr: avgKtr,
		},
		Storage:    acc.storage,
		Acceptance: acc.acceptance,
		Penalties:  acc.penalties,
		Total:      acc.commissionTotal + logisticsTotal + acc.storage + acc.acceptance + acc.penalties,
	}

	for name, cat := range acc.byCategory {
		stats := domain.CategoryStats{
			Orders:     cat.orders,
			Revenue:    cat.revenue,
			Commission: cat.commission,
		}
		if cat.orders > 0 {
			stats.CommissionRate = cat.rateSum / float64(cat.orders)
		}
		result.ByCategory[name] = stats
	}

	return result
}
