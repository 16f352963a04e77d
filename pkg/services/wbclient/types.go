package wbclient

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Raw payload shapes as the marketplace serves them. These never leave the
// package; ingestion converts them into validated domain values.

// supplierOrder is one row of the statistics orders/sales feed.
type supplierOrder struct {
	Date            string  `json:"date"`
	LastChangeDate  string  `json:"lastChangeDate"`
	Srid            string  `json:"srid"`
	NmID            int64   `json:"nmId"`
	Subject         string  `json:"subject"`
	WarehouseName   string  `json:"warehouseName"`
	WarehouseType   string  `json:"warehouseType"`
	FinishedPrice   float64 `json:"finishedPrice"`
	PriceWithDisc   float64 `json:"priceWithDisc"`
	Volume          float64 `json:"volume"`
	StorageDays     int     `json:"storageDays"`
	Penalty         float64 `json:"penalty"`
	IsCancel        bool    `json:"isCancel"`
	SaleID          string  `json:"saleID"`
	OrderType       string  `json:"orderType"`
	IsRealization   bool    `json:"isRealization"`
	SaleDate        string  `json:"saleDate"`
	DeliveryType    string  `json:"deliveryType"`
	CancelDate      string  `json:"cancelDate"`
	TotalPrice      float64 `json:"totalPrice"`
	DiscountPercent int     `json:"discountPercent"`
}

// boxTariffsResponse wraps the common-api tariffs payload. Numeric fields
// arrive as strings with a comma decimal separator.
type boxTariffsResponse struct {
	Response struct {
		Data struct {
			DtNextBox     string             `json:"dtNextBox"`
			DtTillMax     string             `json:"dtTillMax"`
			WarehouseList []boxTariffEntries `json:"warehouseList"`
		} `json:"data"`
	} `json:"response"`
}

type boxTariffEntries struct {
	WarehouseName                  string `json:"warehouseName"`
	BoxDeliveryCoefExpr            string `json:"boxDeliveryCoefExpr"`
	BoxDeliveryMarketplaceCoefExpr string `json:"boxDeliveryMarketplaceCoefExpr"`
	BoxDeliveryBase                string `json:"boxDeliveryBase"`
	BoxDeliveryLiter               string `json:"boxDeliveryLiter"`
	BoxStorageBase                 string `json:"boxStorageBase"`
	BoxStorageLiter                string `json:"boxStorageLiter"`
}

// reportDetailRow is one row of reportDetailByPeriod, the settlement feed.
type reportDetailRow struct {
	RealizationReportID int64   `json:"realizationreport_id"`
	DocTypeName         string  `json:"doc_type_name"`
	RetailPriceWithDisc float64 `json:"retail_price_withdisc_rub"`
	PpvzSalesCommission float64 `json:"ppvz_sales_commission"`
	DeliveryRub         float64 `json:"delivery_rub"`
	StorageFee          float64 `json:"storage_fee"`
	Acceptance          float64 `json:"acceptance"`
	Penalty             float64 `json:"penalty"`
	PpvzForPay          float64 `json:"ppvz_for_pay"`
}

// parseDecimal handles the tariff endpoint's "12,5" and "-" notations.
// "-" means the warehouse has no box tariff; callers get 0.
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return v, nil
}

// parseWBTime accepts the two timestamp layouts the statistics feed mixes.
func parseWBTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
