// Package adapters maps domain values onto the API models. Monetary rounding
// to whole currency units happens here and only here.
package adapters

import (
	"math"
	"sort"

	"github.com/wb-tools/seller-atlas/pkg/models/api"
	"github.com/wb-tools/seller-atlas/pkg/models/domain"
	"github.com/wb-tools/seller-atlas/pkg/services/analysis"
)

const detailedOrdersLimit = 100

func money(v float64) int64 {
	return int64(math.Round(v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MapAnalysisResultToAPI builds the full response payload from one completed
// run. Breakdowns are sorted by revenue descending; the detailed sample keeps
// the first records in feed order.
func MapAnalysisResultToAPI(result *analysis.Result) api.ComprehensiveData {
	a := result.Analytics

	data := api.ComprehensiveData{
		Period: api.Period{
			DateFrom: result.Period.From.Format("2006-01-02"),
			DateTo:   result.Period.To.Format("2006-01-02"),
			Days:     result.Period.Days(),
		},
		Summary: api.Summary{
			TotalOrders:         a.TotalOrders,
			OrderedAmount:       money(a.OrderedAmount),
			RedeemedAmount:      money(a.RedeemedAmount),
			PurchaseRate:        round2(a.PurchaseRate),
			ReturnRate:          round2(a.ReturnRate),
			FinalTransferAmount: money(a.FinalTransferAmount),
		},
		Expenses:       mapExpenses(a.Expenses),
		ByDeliveryType: mapDeliveryTypes(a.ByDeliveryType),
		ByCategory:     mapCategories(a.ByCategory),
		Reconciliation: mapReconciliation(result.Reconciliation),
		DetailedOrders: mapDetailedOrders(result.Expenses),
		Meta: api.RunMeta{
			DegradedRecords:    result.Meta.DegradedRecords,
			SkippedRecords:     result.Meta.SkippedRecords,
			AssumedStorageDays: result.Meta.AssumedStorageDays,
			AssumedVolume:      result.Meta.AssumedVolume,
			AssumedCommission:  result.Meta.AssumedCommission,
		},
	}
	return data
}

func mapExpenses(e domain.ExpenseBreakdown) api.Expenses {
	byCat := make(map[string]int64, len(e.Commission.ByCategory))
	for cat, amount := range e.Commission.ByCategory {
		byCat[cat] = money(amount)
	}
	return api.Expenses{
		Commission: api.CommissionExpenses{
			Total:      money(e.Commission.Total),
			ByCategory: byCat,
		},
		Logistics: api.LogisticsExpenses{
			Delivered:  money(e.Logistics.Delivered),
			Returned:   money(e.Logistics.Returned),
			Total:      money(e.Logistics.Total),
			AverageKtr: round2(e.Logistics.AverageKtr),
		},
		Storage:    money(e.Storage),
		Acceptance: money(e.Acceptance),
		Penalties:  money(e.Penalties),
		Total:      money(e.Total),
	}
}

func mapDeliveryTypes(stats map[domain.DeliveryType]domain.DeliveryTypeStats) []api.DeliveryTypeRow {
	rows := make([]api.DeliveryTypeRow, 0, len(stats))
	for dt, s := range stats {
		rows = append(rows, api.DeliveryTypeRow{
			DeliveryType: string(dt),
			Orders:       s.Orders,
			Revenue:      money(s.Revenue),
			Expenses:     money(s.Expenses),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return rows[i].DeliveryType < rows[j].DeliveryType
	})
	return rows
}

func mapCategories(stats map[string]domain.CategoryStats) []api.CategoryRow {
	rows := make([]api.CategoryRow, 0, len(stats))
	for cat, s := range stats {
		rows = append(rows, api.CategoryRow{
			Category:       cat,
			Orders:         s.Orders,
			Revenue:        money(s.Revenue),
			Commission:     money(s.Commission),
			CommissionRate: round2(s.CommissionRate),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

func mapReconciliation(r *domain.ReconciliationResult) *api.Reconciliation {
	if r == nil {
		return nil
	}

	fieldValue := func(t domain.ComparableTotals, field string) float64 {
		switch field {
		case "revenue":
			return t.Revenue
		case "commission":
			return t.Commission
		case "logistics":
			return t.Logistics
		case "storage":
			return t.Storage
		case "acceptance":
			return t.Acceptance
		case "penalties":
			return t.Penalties
		case "totalExpenses":
			return t.TotalExpenses
		case "toTransfer":
			return t.ToTransfer
		}
		return 0
	}

	out := &api.Reconciliation{
		Discrepancies:   make(map[string]api.FieldDiff, len(r.Discrepancies)),
		MatchQuality:    string(r.MatchQuality),
		OverallAccuracy: round2(r.OverallAccuracy),
	}
	for field, d := range r.Discrepancies {
		out.Discrepancies[field] = api.FieldDiff{
			Calculated: money(fieldValue(r.Calculated, field)),
			WbReport:   money(fieldValue(r.WbReport, field)),
			Diff:       money(d.Diff),
			Percent:    round2(d.Percent),
		}
	}
	for _, d := range r.SignificantDiscrepancies {
		out.SignificantDiscrepancies = append(out.SignificantDiscrepancies, api.SignificantDiscrepancy{
			Field:   d.Field,
			Diff:    money(d.Diff),
			Percent: round2(d.Percent),
		})
	}
	return out
}

func mapDetailedOrders(records []domain.ExpenseRecord) []api.OrderExpense {
	limit := len(records)
	if limit > detailedOrdersLimit {
		limit = detailedOrdersLimit
	}
	out := make([]api.OrderExpense, 0, limit)
	for _, r := range records[:limit] {
		out = append(out, api.OrderExpense{
			OrderID:           r.OrderID,
			NmID:              r.NmID,
			Category:          r.Category,
			DeliveryType:      string(r.DeliveryType),
			FinishedPrice:     money(r.FinishedPrice),
			Commission:        money(r.Commission),
			CommissionRate:    round2(r.CommissionRate),
			OutboundLogistics: money(r.OutboundLogistics),
			ReturnLogistics:   money(r.ReturnLogistics),
			TotalLogistics:    money(r.TotalLogistics),
			Ktr:               round2(r.Ktr),
			Storage:           money(r.Storage),
			Acceptance:        money(r.Acceptance),
			Penalty:           money(r.Penalty),
			TotalExpenses:     money(r.TotalExpenses),
			ToTransfer:        money(r.ToTransfer),
			IsPurchased:       r.IsPurchased,
			IsReturned:        r.IsReturned,
		})
	}
	return out
}

// MapCabinetToAPI hides the token; it never crosses the HTTP boundary.
func MapCabinetToAPI(c domain.Cabinet) api.Cabinet {
	return api.Cabinet{ID: c.ID, Name: c.Name, Active: c.Active}
}
