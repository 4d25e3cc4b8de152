package models

import "time"

type RegionShade struct {
	Region    string  `json:"region"`
	Sales     float64 `json:"sales"`
	Intensity float64 `json:"intensity"`
	Color     string  `json:"color"`
}

type Demographics struct {
	AgeHistogram  []HistogramBin `json:"age_histogram"`
	SalesByState  []KeyedSales   `json:"sales_by_state"`
	TopCities     []CitySales    `json:"top_cities"`
	SalesByGender []KeyedSales   `json:"sales_by_gender"`
}

type RFMDistribution struct {
	Recency   []HistogramBin `json:"recency"`
	Frequency []HistogramBin `json:"frequency"`
	Monetary  []HistogramBin `json:"monetary"`
}

// Report is the full set of aggregates shown on the dashboard for one date range.
type Report struct {
	Start             time.Time         `json:"start"`
	End               time.Time         `json:"end"`
	OrderCount        int               `json:"order_count"`
	TotalSales        float64           `json:"total_sales"`
	TotalSalesLabel   string            `json:"total_sales_label"`
	TotalPayment      float64           `json:"total_payment"`
	TotalPaymentLabel string            `json:"total_payment_label"`
	DailySales        []DailySales      `json:"daily_sales"`
	MonthlySales      []MonthlySales    `json:"monthly_sales"`
	TopProducts       []ProductSales    `json:"top_products"`
	BottomProducts    []ProductSales    `json:"bottom_products"`
	Demographics      Demographics      `json:"demographics"`
	RFM               []CustomerRFM     `json:"rfm"`
	RFMSummary        RFMSummary        `json:"rfm_summary"`
	RFMDistribution   RFMDistribution   `json:"rfm_distribution"`
	Segments          []CustomerSegment `json:"segments"`
	SegmentCounts     []SegmentCount    `json:"segment_counts"`
	Choropleth        []RegionShade     `json:"choropleth"`
	GeneratedAt       time.Time         `json:"generated_at"`
}
