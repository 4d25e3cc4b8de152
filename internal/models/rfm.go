package models

type CustomerRFM struct {
	CustomerID string  `json:"customer_id"`
	Recency    int     `json:"recency"`
	Frequency  int     `json:"frequency"`
	Monetary   float64 `json:"monetary"`
}

type Segment string

const (
	BestCustomers      Segment = "BestCustomers"
	LoyalCustomers     Segment = "LoyalCustomers"
	PotentialLoyalists Segment = "PotentialLoyalists"
	AtRisk             Segment = "AtRisk"
	Others             Segment = "Others"
)

// Label is the human readable form shown on charts.
func (s Segment) Label() string {
	switch s {
	case BestCustomers:
		return "Best Customers"
	case LoyalCustomers:
		return "Loyal Customers"
	case PotentialLoyalists:
		return "Potential Loyalists"
	case AtRisk:
		return "At Risk"
	default:
		return "Others"
	}
}

type CustomerSegment struct {
	CustomerID string  `json:"customer_id"`
	Segment    Segment `json:"segment"`
}

type SegmentCount struct {
	Segment Segment `json:"segment"`
	Label   string  `json:"label"`
	Count   int     `json:"count"`
}

type RFMSummary struct {
	Customers        int     `json:"customers"`
	AvgRecency       float64 `json:"avg_recency"`
	AvgFrequency     float64 `json:"avg_frequency"`
	AvgMonetary      float64 `json:"avg_monetary"`
	AvgMonetaryLabel string  `json:"avg_monetary_label"`
}
