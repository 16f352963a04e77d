package api

import "time"

// Monetary values in this package are rounded to the nearest integer currency
// unit. This is the only place in the system where rounding happens.

type Period struct {
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
	Days     int    `json:"days"`
}

type Summary struct {
	TotalOrders         int     `json:"totalOrders"`
	OrderedAmount       int64   `json:"orderedAmount"`
	RedeemedAmount      int64   `json:"redeemedAmount"`
	PurchaseRate        float64 `json:"purchaseRate"`
	ReturnRate          float64 `json:"returnRate"`
	FinalTransferAmount int64   `json:"finalTransferAmount"`
}

type CommissionExpenses struct {
	Total      int64            `json:"total"`
	ByCategory map[string]int64 `json:"byCategory"`
}

type LogisticsExpenses struct {
	Delivered  int64   `json:"delivered"`
	Returned   int64   `json:"returned"`
	Total      int64   `json:"total"`
	AverageKtr float64 `json:"averageKtr"`
}

type Expenses struct {
	Commission CommissionExpenses `json:"commission"`
	Logistics  LogisticsExpenses  `json:"logistics"`
	Storage    int64              `json:"storage"`
	Acceptance int64              `json:"acceptance"`
	Penalties  int64              `json:"penalties"`
	Total      int64              `json:"total"`
}

type DeliveryTypeRow struct {
	DeliveryType string `json:"deliveryType"`
	Orders       int    `json:"orders"`
	Revenue      int64  `json:"revenue"`
	Expenses     int64  `json:"expenses"`
}

type CategoryRow struct {
	Category       string  `json:"category"`
	Orders         int     `json:"orders"`
	Revenue        int64   `json:"revenue"`
	Commission     int64   `json:"commission"`
	CommissionRate float64 `json:"commissionRate"`
}

type OrderExpense struct {
	OrderID           string  `json:"orderId"`
	NmID              int64   `json:"nmId"`
	Category          string  `json:"category"`
	DeliveryType      string  `json:"deliveryType"`
	FinishedPrice     int64   `json:"finishedPrice"`
	Commission        int64   `json:"commission"`
	CommissionRate    float64 `json:"commissionRate"`
	OutboundLogistics int64   `json:"outboundLogistics"`
	ReturnLogistics   int64   `json:"returnLogistics"`
	TotalLogistics    int64   `json:"totalLogistics"`
	Ktr               float64 `json:"ktr"`
	Storage           int64   `json:"storage"`
	Acceptance        int64   `json:"acceptance"`
	Penalty           int64   `json:"penalty"`
	TotalExpenses     int64   `json:"totalExpenses"`
	ToTransfer        int64   `json:"toTransfer"`
	IsPurchased       bool    `json:"isPurchased"`
	IsReturned        bool    `json:"isReturned"`
}

type FieldDiff struct {
	Calculated int64   `json:"calculated"`
	WbReport   int64   `json:"wbReport"`
	Diff       int64   `json:"diff"`
	Percent    float64 `json:"percent"`
}

type SignificantDiscrepancy struct {
	Field   string  `json:"field"`
	Diff    int64   `json:"diff"`
	Percent float64 `json:"percent"`
}

type Reconciliation struct {
	Discrepancies            map[string]FieldDiff     `json:"discrepancies"`
	MatchQuality             string                   `json:"matchQuality"`
	OverallAccuracy          float64                  `json:"overallAccuracy"`
	SignificantDiscrepancies []SignificantDiscrepancy `json:"significantDiscrepancies"`
}

type RunMeta struct {
	DegradedRecords    int `json:"degradedRecords"`
	SkippedRecords     int `json:"skippedRecords"`
	AssumedStorageDays int `json:"assumedStorageDays"`
	AssumedVolume      int `json:"assumedVolume"`
	AssumedCommission  int `json:"assumedCommission"`
}

type ComprehensiveData struct {
	Period         Period            `json:"period"`
	Summary        Summary           `json:"summary"`
	Expenses       Expenses          `json:"expenses"`
	ByDeliveryType []DeliveryTypeRow `json:"byDeliveryType"`
	ByCategory     []CategoryRow     `json:"byCategory"`
	Reconciliation *Reconciliation   `json:"reconciliation"`
	DetailedOrders []OrderExpense    `json:"detailedOrders"`
	Meta           RunMeta           `json:"meta"`
}

type ComprehensiveResponse struct {
	Success     bool              `json:"success"`
	Data        ComprehensiveData `json:"data"`
	FromCache   bool              `json:"fromCache"`
	CacheAge    int               `json:"cacheAge,omitempty"` // minutes
	GeneratedAt time.Time         `json:"generatedAt"`
}

type Error struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type Cabinet struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
