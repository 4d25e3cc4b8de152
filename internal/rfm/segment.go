package rfm

import "sales-dashboard/internal/models"

// Rule pairs a segment with the predicate that selects it.
type Rule struct {
	Segment models.Segment
	Match   func(models.CustomerRFM) bool
}

// Rules is evaluated top to bottom and the first match wins. Ranges overlap,
// so the order is part of the contract.
var Rules = []Rule{
	{
		Segment: models.BestCustomers,
		Match: func(r models.CustomerRFM) bool {
			return r.Recency <= 30 && r.Frequency >= 5 && r.Monetary >= 1000
		},
	},
	{
		Segment: models.LoyalCustomers,
		Match: func(r models.CustomerRFM) bool {
			return r.Recency <= 90 && r.Frequency >= 3 && r.Monetary >= 500
		},
	},
	{
		Segment: models.PotentialLoyalists,
		Match: func(r models.CustomerRFM) bool {
			return r.Recency <= 180 && r.Frequency >= 1 && r.Monetary >= 100
		},
	},
	{
		// Customers past 180 days spending under 100 are not caught here
		// and fall through to Others.
		Segment: models.AtRisk,
		Match: func(r models.CustomerRFM) bool {
			return r.Recency > 180 && r.Frequency >= 1 && r.Monetary >= 100
		},
	},
}

// Segments lists every segment in rule order, Others last.
var Segments = []models.Segment{
	models.BestCustomers,
	models.LoyalCustomers,
	models.PotentialLoyalists,
	models.AtRisk,
	models.Others,
}

// Classify returns the segment of the first rule in Rules that matches r,
// or Others when none does.
func Classify(r models.CustomerRFM) models.Segment {
	for _, rule := range Rules {
		if rule.Match(r) {
			return rule.Segment
		}
	}
	return models.Others
}

// Segment classifies each customer, preserving input order.
func Segment(customers []models.CustomerRFM) []models.CustomerSegment {
	out := make([]models.CustomerSegment, len(customers))
	for i, c := range customers {
		out[i] = models.CustomerSegment{CustomerID: c.CustomerID, Segment: Classify(c)}
	}
	return out
}

// CountSegments tallies assignments per segment. All segments are present in
// the result, including empty ones, in rule order.
func CountSegments(assignments []models.CustomerSegment) []models.SegmentCount {
	counts := make(map[models.Segment]int, len(Segments))
	for _, a := range assignments {
		counts[a.Segment]++
	}

	out := make([]models.SegmentCount, 0, len(Segments))
	for _, s := range Segments {
		out = append(out, models.SegmentCount{Segment: s, Label: s.Label(), Count: counts[s]})
	}
	return out
}
