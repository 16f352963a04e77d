// Package analysis orchestrates one complete analytics run: raw order fetch,
// per-order expense computation with run-scoped tariff memoization,
// aggregation, settlement fetch and reconciliation.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-tools/seller-atlas/pkg/models/domain"
	"github.com/wb-tools/seller-atlas/pkg/services/analytics"
	"github.com/wb-tools/seller-atlas/pkg/services/expense"
	"github.com/wb-tools/seller-atlas/pkg/services/reconcile"
	"github.com/wb-tools/seller-atlas/pkg/services/tariff"
)

type OrderSource interface {
	GetOrders(ctx context.Context, from, to time.Time) ([]domain.RawOrder, error)
}

type SettlementSource interface {
	// GetSettlementReport returns (nil, nil) when the marketplace has no
	// closed report for the window yet.
	GetSettlementReport(ctx context.Context, from, to time.Time) (*domain.SettlementReport, error)
}

// Sources are the marketplace endpoints one run reads from, all scoped to a
// single cabinet token.
type Sources struct {
	Orders      OrderSource
	Tariffs     tariff.Source
	Settlements SettlementSource
}

// SourceFactory builds token-scoped sources; the service itself holds no
// credentials.
type SourceFactory func(token string) Sources

// Result is one completed, cacheable analysis snapshot.
type Result struct {
	Period         domain.Period
	Analytics      domain.PeriodAnalytics
	Expenses       []domain.ExpenseRecord
	Reconciliation *domain.ReconciliationResult
	Meta           domain.RunMeta
	GeneratedAt    time.Time
}

type Service struct {
	sources    SourceFactory
	ref        *expense.ReferenceData
	reconciler *reconcile.Engine
}

func NewService(sources SourceFactory, ref *expense.ReferenceData, reconciler *reconcile.Engine) *Service {
	return &Service{sources: sources, ref: ref, reconciler: reconciler}
}

// RunCompleteAnalysis executes the full pipeline for one cabinet and window.
// Upstream tariff or settlement failures degrade the result (neutral KTR /
// nil reconciliation); an order-feed failure aborts the run. Expense records
// keep the order of the input feed, so the first-100 sample the API exposes
// is deterministic.
func (s *Service) RunCompleteAnalysis(
	ctx context.Context,
	cabinet domain.Cabinet,
	from, to time.Time,
) (*Result, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("cabinet", cabinet.Name).
		Str("date_from", from.Format("2006-01-02")).
		Str("date_to", to.Format("2006-01-02")).
		Logger()
	ctx = logger.WithContext(ctx)

	src := s.sources(cabinet.Token)

	orders, err := src.Orders.GetOrders(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("analysis: fetch orders: %w", err)
	}
	logger.Info().Int("orders", len(orders)).Msg("raw orders fetched")

	// Both the resolver memo and the calculator tallies live and die with
	// this invocation; nothing leaks across concurrent runs.
	resolver := tariff.NewResolver(src.Tariffs)
	calc := expense.NewCalculator(s.ref)

	records := make([]domain.ExpenseRecord, 0, len(orders))
	for _, order := range orders {
		if !order.Valid() {
			calc.CountSkipped()
			continue
		}
		entry := resolver.Warehouse(ctx, order.WarehouseName)
		records = append(records, calc.Calculate(order, entry))
	}

	aggregated := analytics.Aggregate(records)

	var reconciliation *domain.ReconciliationResult
	report, err := src.Settlements.GetSettlementReport(ctx, from, to)
	switch {
	case err != nil:
		// A fabricated zero report would be indistinguishable from a genuine
		// exact match, so reconciliation is omitted instead.
		logger.Warn().Err(err).Msg("settlement report unavailable, reconciliation skipped")
	case report == nil:
		logger.Info().Msg("no settlement rows for period, reconciliation skipped")
	default:
		r := s.reconciler.Reconcile(aggregated.Comparable(), *report)
		reconciliation = &r
		logger.Info().
			Str("match_quality", string(r.MatchQuality)).
			Float64("overall_accuracy", r.OverallAccuracy).
			Msg("reconciliation complete")
	}

	meta := calc.Meta()
	if meta.SkippedRecords > 0 || meta.DegradedRecords > 0 {
		logger.Warn().
			Int("skipped", meta.SkippedRecords).
			Int("degraded", meta.DegradedRecords).
			Msg("run completed with degraded records")
	}

	return &Result{
		Period:         domain.Period{From: from, To: to},
		Analytics:      aggregated,
		Expenses:       records,
		Reconciliation: reconciliation,
		Meta:           meta,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}
