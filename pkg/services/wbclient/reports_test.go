package wbclient

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettlementReport_FoldsRows(t *testing.T) {
	body := `[
		{"doc_type_name":"Продажа","retail_price_withdisc_rub":1000,"ppvz_sales_commission":150,"delivery_rub":60,"storage_fee":5,"acceptance":2,"penalty":0,"ppvz_for_pay":783},
		{"doc_type_name":"Продажа","retail_price_withdisc_rub":500,"ppvz_sales_commission":75,"delivery_rub":60,"storage_fee":5,"acceptance":2,"penalty":10,"ppvz_for_pay":348},
		{"doc_type_name":"Возврат","retail_price_withdisc_rub":500,"ppvz_sales_commission":0,"delivery_rub":100,"storage_fee":0,"acceptance":0,"penalty":0,"ppvz_for_pay":-100}
	]`
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: http.StatusOK, body: body},
	}}
	c := newTestClient(t, transport)
	from := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)

	report, err := c.GetSettlementReport(context.Background(), from, to)

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 3, report.RowCount)
	assert.Equal(t, from, report.Period.From)

	totals := report.Totals
	// Returns subtract from revenue, their logistics leg still costs money.
	assert.InDelta(t, 1000, totals.Revenue, 1e-9)
	assert.InDelta(t, 225, totals.Commission, 1e-9)
	assert.InDelta(t, 220, totals.Logistics, 1e-9)
	assert.InDelta(t, 10, totals.Storage, 1e-9)
	assert.InDelta(t, 4, totals.Acceptance, 1e-9)
	assert.InDelta(t, 10, totals.Penalties, 1e-9)
	assert.InDelta(t, 225+220+10+4+10, totals.TotalExpenses, 1e-9)
	assert.InDelta(t, 1031, totals.ToTransfer, 1e-9)
}

func TestGetSettlementReport_EmptyPeriodMeansNoReport(t *testing.T) {
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: http.StatusOK, body: `[]`},
	}}
	c := newTestClient(t, transport)

	report, err := c.GetSettlementReport(context.Background(), time.Now(), time.Now())

	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestGetSettlementReport_WindowInQuery(t *testing.T) {
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: http.StatusOK, body: `[]`},
	}}
	c := newTestClient(t, transport)
	from := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)

	_, err := c.GetSettlementReport(context.Background(), from, to)

	require.NoError(t, err)
	require.Len(t, transport.requests, 1)
	q := transport.requests[0].URL.Query()
	assert.Equal(t, "2025-08-01", q.Get("dateFrom"))
	assert.Equal(t, "2025-08-31", q.Get("dateTo"))
}
