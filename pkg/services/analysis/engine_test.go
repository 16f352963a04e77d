package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wb-tools/seller-atlas/pkg/models/domain"
	"github.com/wb-tools/seller-atlas/pkg/services/expense"
	"github.com/wb-tools/seller-atlas/pkg/services/reconcile"
)

type mockOrders struct{ mock.Mock }

func (m *mockOrders) GetOrders(ctx context.Context, from, to time.Time) ([]domain.RawOrder, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawOrder), args.Error(1)
}

type mockTariffs struct{ mock.Mock }

func (m *mockTariffs) GetBoxTariffs(ctx context.Context) (*domain.BoxTariffs, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BoxTariffs), args.Error(1)
}

type mockSettlements struct{ mock.Mock }

func (m *mockSettlements) GetSettlementReport(ctx context.Context, from, to time.Time) (*domain.SettlementReport, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementReport), args.Error(1)
}

type fixture struct {
	orders      *mockOrders
	tariffs     *mockTariffs
	settlements *mockSettlements
	service     *Service
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		orders:      &mockOrders{},
		tariffs:     &mockTariffs{},
		settlements: &mockSettlements{},
	}
	ref := &expense.ReferenceData{
		CommissionRates:       map[string]float64{"Shoes": 15},
		FallbackCommissionPct: expense.DefaultFallbackCommissionPct,
		StorageDefaultDays:    expense.DefaultStorageDays,
		DefaultVolumeLiters:   expense.DefaultVolumeLiters,
	}
	f.service = NewService(func(token string) Sources {
		return Sources{Orders: f.orders, Tariffs: f.tariffs, Settlements: f.settlements}
	}, ref, reconcile.NewEngine(reconcile.DefaultThresholds()))
	return f
}

var (
	testCabinet = domain.Cabinet{ID: "cab-1", Name: "shop", Token: "token", Active: true}
	from        = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	to          = time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
)

func testOrders() []domain.RawOrder {
	return []domain.RawOrder{
		{OrderID: "o1", Category: "Shoes", WarehouseName: "Коледино", FinishedPrice: 1000, VolumeLiters: 2, IsPurchased: true, OrderDate: from},
		{OrderID: "o2", Category: "Shoes", WarehouseName: "Коледино", FinishedPrice: 500, VolumeLiters: 1, IsReturned: true, OrderDate: from},
	}
}

func testBoxTariffs() *domain.BoxTariffs {
	return &domain.BoxTariffs{
		WarehouseList: []domain.TariffEntry{
			{WarehouseName: "Коледино", BoxDeliveryCoefExpr: 120, BoxDeliveryBase: 50, BoxDeliveryLiter: 20},
		},
	}
}

func TestRunCompleteAnalysis_FullPipeline(t *testing.T) {
	f := setupFixture(t)
	f.orders.On("GetOrders", mock.Anything, from, to).Return(testOrders(), nil)
	f.tariffs.On("GetBoxTariffs", mock.Anything).Return(testBoxTariffs(), nil).Once()
	f.settlements.On("GetSettlementReport", mock.Anything, from, to).Return(
		&domain.SettlementReport{Totals: domain.ComparableTotals{Revenue: 1500}}, nil)

	result, err := f.service.RunCompleteAnalysis(context.Background(), testCabinet, from, to)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Analytics.TotalOrders)
	require.Len(t, result.Expenses, 2)
	// Records keep the feed order: the first-100 sample must be deterministic.
	assert.Equal(t, "o1", result.Expenses[0].OrderID)
	assert.Equal(t, "o2", result.Expenses[1].OrderID)
	require.NotNil(t, result.Reconciliation)
	assert.Zero(t, result.Meta.DegradedRecords)

	// The tariff table is fetched once per run, not once per order.
	f.tariffs.AssertExpectations(t)
}

func TestRunCompleteAnalysis_OrderFetchFailureAborts(t *testing.T) {
	f := setupFixture(t)
	f.orders.On("GetOrders", mock.Anything, from, to).Return(nil, errors.New("status 500"))

	_, err := f.service.RunCompleteAnalysis(context.Background(), testCabinet, from, to)

	assert.Error(t, err)
}

func TestRunCompleteAnalysis_SettlementFailureSkipsReconciliation(t *testing.T) {
	f := setupFixture(t)
	f.orders.On("GetOrders", mock.Anything, from, to).Return(testOrders(), nil)
	f.tariffs.On("GetBoxTariffs", mock.Anything).Return(testBoxTariffs(), nil)
	f.settlements.On("GetSettlementReport", mock.Anything, from, to).Return(nil, errors.New("timeout"))

	result, err := f.service.RunCompleteAnalysis(context.Background(), testCabinet, from, to)

	require.NoError(t, err)
	assert.Nil(t, result.Reconciliation)
	assert.Equal(t, 2, result.Analytics.TotalOrders)
}

func TestRunCompleteAnalysis_NoSettlementRowsSkipsReconciliation(t *testing.T) {
	f := setupFixture(t)
	f.orders.On("GetOrders", mock.Anything, from, to).Return(testOrders(), nil)
	f.tariffs.On("GetBoxTariffs", mock.Anything).Return(testBoxTariffs(), nil)
	f.settlements.On("GetSettlementReport", mock.Anything, from, to).Return(nil, nil)

	result, err := f.service.RunCompleteAnalysis(context.Background(), testCabinet, from, to)

	require.NoError(t, err)
	assert.Nil(t, result.Reconciliation)
}

func TestRunCompleteAnalysis_TariffFailureDegrades(t *testing.T) {
	f := setupFixture(t)
	f.orders.On("GetOrders", mock.Anything, from, to).Return(testOrders(), nil)
	f.tariffs.On("GetBoxTariffs", mock.Anything).Return(nil, errors.New("status 503")).Once()
	f.settlements.On("GetSettlementReport", mock.Anything, from, to).Return(nil, nil)

	result, err := f.service.RunCompleteAnalysis(context.Background(), testCabinet, from, to)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Meta.DegradedRecords)
	for _, r := range result.Expenses {
		assert.InDelta(t, 1.0, r.Ktr, 1e-9)
	}
	// The failed fetch is memoized too; one run hits the endpoint once.
	f.tariffs.AssertExpectations(t)
}

func TestRunCompleteAnalysis_MalformedOrdersSkipped(t *testing.T) {
	f := setupFixture(t)
	orders := append([]domain.RawOrder{{}}, testOrders()...) // zero-value row from a bad feed line
	f.orders.On("GetOrders", mock.Anything, from, to).Return(orders, nil)
	f.tariffs.On("GetBoxTariffs", mock.Anything).Return(testBoxTariffs(), nil)
	f.settlements.On("GetSettlementReport", mock.Anything, from, to).Return(nil, nil)

	result, err := f.service.RunCompleteAnalysis(context.Background(), testCabinet, from, to)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Meta.SkippedRecords)
	assert.Equal(t, 2, result.Analytics.TotalOrders)
}

func TestRunCompleteAnalysis_EmptyPeriod(t *testing.T) {
	f := setupFixture(t)
	f.orders.On("GetOrders", mock.Anything, from, to).Return([]domain.RawOrder{}, nil)
	f.settlements.On("GetSettlementReport", mock.Anything, from, to).Return(nil, nil)

	result, err := f.service.RunCompleteAnalysis(context.Background(), testCabinet, from, to)

	require.NoError(t, err)
	assert.Zero(t, result.Analytics.TotalOrders)
	assert.Zero(t, result.Analytics.PurchaseRate)
	assert.Empty(t, result.Expenses)
}
