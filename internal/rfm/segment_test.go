package rfm

import (
	"testing"

	"sales-dashboard/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		r, f int
		m    float64
		want models.Segment
	}{
		{"best at every boundary", 30, 5, 1000, models.BestCustomers},
		{"best well inside", 0, 12, 5000, models.BestCustomers},
		{"one day past best", 31, 5, 1000, models.LoyalCustomers},
		{"best recency but four orders", 10, 4, 2000, models.LoyalCustomers},
		{"best recency and orders but low spend", 10, 5, 999.99, models.LoyalCustomers},
		{"loyal at every boundary", 90, 3, 500, models.LoyalCustomers},
		{"one day past loyal", 91, 3, 500, models.PotentialLoyalists},
		{"loyal but two orders", 60, 2, 800, models.PotentialLoyalists},
		{"potential at every boundary", 180, 1, 100, models.PotentialLoyalists},
		{"potential below spend", 180, 1, 99.99, models.Others},
		{"at risk at boundary", 181, 1, 100, models.AtRisk},
		{"at risk big spender", 400, 9, 10000, models.AtRisk},
		{"gap between potential and at risk", 200, 1, 50, models.Others},
		{"no orders", 0, 0, 0, models.Others},
		{"negative monetary", 5, 3, -20, models.Others},
		{"zero frequency high spend", 5, 0, 5000, models.Others},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := models.CustomerRFM{Recency: tt.r, Frequency: tt.f, Monetary: tt.m}
			if got := Classify(in); got != tt.want {
				t.Errorf("Classify(R=%d, F=%d, M=%v) = %s, want %s", tt.r, tt.f, tt.m, got, tt.want)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	in := models.CustomerRFM{Recency: 45, Frequency: 3, Monetary: 750}
	first := Classify(in)
	for i := 0; i < 100; i++ {
		if got := Classify(in); got != first {
			t.Fatalf("call %d returned %s, first call returned %s", i, got, first)
		}
	}
}

func TestRules_Order(t *testing.T) {
	want := []models.Segment{
		models.BestCustomers,
		models.LoyalCustomers,
		models.PotentialLoyalists,
		models.AtRisk,
	}
	if len(Rules) != len(want) {
		t.Fatalf("got %d rules, want %d", len(Rules), len(want))
	}
	for i, s := range want {
		if Rules[i].Segment != s {
			t.Errorf("rule %d = %s, want %s", i, Rules[i].Segment, s)
		}
	}
}

func TestSegmentAndCount(t *testing.T) {
	customers := []models.CustomerRFM{
		{CustomerID: "a", Recency: 1, Frequency: 6, Monetary: 2000},
		{CustomerID: "b", Recency: 200, Frequency: 1, Monetary: 50},
		{CustomerID: "c", Recency: 200, Frequency: 1, Monetary: 150},
		{CustomerID: "d", Recency: 5, Frequency: 6, Monetary: 1500},
	}

	assigned := Segment(customers)
	if len(assigned) != len(customers) {
		t.Fatalf("got %d assignments, want %d", len(assigned), len(customers))
	}
	for i, a := range assigned {
		if a.CustomerID != customers[i].CustomerID {
			t.Errorf("assignment %d is for %s, want %s", i, a.CustomerID, customers[i].CustomerID)
		}
	}

	counts := CountSegments(assigned)
	if len(counts) != len(Segments) {
		t.Fatalf("got %d counts, want %d", len(counts), len(Segments))
	}
	want := map[models.Segment]int{
		models.BestCustomers:      2,
		models.LoyalCustomers:     0,
		models.PotentialLoyalists: 0,
		models.AtRisk:             1,
		models.Others:             1,
	}
	for i, c := range counts {
		if c.Segment != Segments[i] {
			t.Errorf("count %d segment = %s, want %s", i, c.Segment, Segments[i])
		}
		if c.Count != want[c.Segment] {
			t.Errorf("%s count = %d, want %d", c.Segment, c.Count, want[c.Segment])
		}
		if c.Label != c.Segment.Label() {
			t.Errorf("%s label = %q", c.Segment, c.Label)
		}
	}
}

func TestSegment_AssignsEveryComputedCustomer(t *testing.T) {
	rows, err := Compute(sampleOrders())
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range Segment(rows) {
		if s.Segment == "" {
			t.Errorf("customer %s has no segment", s.CustomerID)
		}
	}
}
