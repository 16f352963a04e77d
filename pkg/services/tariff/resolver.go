// Package tariff resolves warehouse logistics coefficients (KTR) from the
// marketplace box-tariff table.
package tariff

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/wb-tools/seller-atlas/pkg/models/domain"
	"github.com/wb-tools/seller-atlas/pkg/services/wbclient"
)

// NeutralKtr is substituted when no tariff is resolvable for a warehouse.
// Consumers substituting it must flag the record as degraded.
const NeutralKtr = 1.0

// Source fetches the tariff table. *wbclient.Client satisfies it.
type Source interface {
	GetBoxTariffs(ctx context.Context) (*domain.BoxTariffs, error)
}

// Resolver looks up warehouse tariffs, memoizing the fetched table. A Resolver
// is scoped to one analysis run and must not be shared across runs; the memo
// is the run-local cache the orchestrator owns, never a process-wide one.
type Resolver struct {
	source Source

	tariffs *domain.BoxTariffs
	fetched bool // a failed fetch is memoized too; one run retries at most once via forceRefresh
}

func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// BoxTariffs returns the memoized tariff table, fetching it on first use.
// On fetch failure it returns nil and the caller decides the fallback.
func (r *Resolver) BoxTariffs(ctx context.Context, forceRefresh bool) *domain.BoxTariffs {
	if r.fetched && !forceRefresh {
		return r.tariffs
	}
	r.fetched = true

	tariffs, err := r.source.GetBoxTariffs(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("error_type", wbclient.ClassifyError(err).String()).
			Msg("box tariffs unavailable, analysis degrades to neutral KTR")
		r.tariffs = nil
		return nil
	}
	r.tariffs = tariffs
	return tariffs
}

// Warehouse returns the tariff entry for an exact warehouse name match, or nil
// when the warehouse is unknown or the table could not be fetched.
func (r *Resolver) Warehouse(ctx context.Context, name string) *domain.TariffEntry {
	if name == "" {
		return nil
	}
	return r.BoxTariffs(ctx, false).Warehouse(name)
}

// GetWarehouseKtr resolves the delivery coefficient for a warehouse as an
// already-divided decimal factor (a stored value of 150 comes back as 1.50).
// ok is false when no tariff entry exists; callers substitute NeutralKtr and
// count the record as degraded.
func (r *Resolver) GetWarehouseKtr(
	ctx context.Context,
	name string,
	deliveryType domain.DeliveryType,
	forceRefresh bool,
) (ktr float64, ok bool) {
	entry := r.BoxTariffs(ctx, forceRefresh).Warehouse(name)
	if entry == nil {
		return 0, false
	}
	return Ktr(*entry, deliveryType), true
}

// Ktr picks the delivery coefficient for the fulfillment model and unscales
// it. The divide-by-100 happens here and nowhere else.
func Ktr(entry domain.TariffEntry, deliveryType domain.DeliveryType) float64 {
	coef := entry.BoxDeliveryCoefExpr
	if deliveryType == domain.DeliveryFBS || deliveryType == domain.DeliveryDBS {
		coef = entry.BoxDeliveryMarketplaceCoefExpr
	}
	if coef == 0 {
		return NeutralKtr
	}
	return coef / 100.0
}
