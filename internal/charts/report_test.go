package charts

import (
	"bytes"
	"errors"
	"testing"

	"sales-dashboard/internal/models"
)

func fullReport() *models.Report {
	return &models.Report{
		MonthlySales: []models.MonthlySales{
			{Year: 2022, Month: 11, Sales: 300},
			{Year: 2022, Month: 12, Sales: 450},
			{Year: 2023, Month: 1, Sales: 200},
		},
		TopProducts:    []models.ProductSales{{ProductName: "Widget", Quantity: 5, TotalPrice: 900}},
		BottomProducts: []models.ProductSales{{ProductName: "Gadget", Quantity: 1, TotalPrice: 370}},
		Demographics: models.Demographics{
			AgeHistogram:  []models.HistogramBin{{Lower: 20, Upper: 40, Count: 3}, {Lower: 40, Upper: 60, Count: 1}},
			SalesByState:  []models.KeyedSales{{Key: "Victoria", Sales: 900}, {Key: "Queensland", Sales: 370}},
			TopCities:     []models.CitySales{{City: "Melbourne", Quantity: 5, TotalPrice: 900}},
			SalesByGender: []models.KeyedSales{{Key: "Female", Sales: 800}, {Key: "Male", Sales: 470}},
		},
		RFMDistribution: models.RFMDistribution{
			Recency:   []models.HistogramBin{{Lower: 0, Upper: 50, Count: 2}},
			Frequency: []models.HistogramBin{{Lower: 1, Upper: 3, Count: 2}},
			Monetary:  []models.HistogramBin{{Lower: 100, Upper: 900, Count: 2}},
		},
		SegmentCounts: []models.SegmentCount{
			{Segment: models.BestCustomers, Label: "Best Customers", Count: 0},
			{Segment: models.Others, Label: "Others", Count: 2},
		},
		Choropleth: []models.RegionShade{
			{Region: "Victoria", Sales: 900, Intensity: 1},
			{Region: "Queensland", Sales: 370, Intensity: 0},
		},
	}
}

func TestRender_AllCharts(t *testing.T) {
	if len(Names) != len(reportCharts) {
		t.Fatalf("Names has %d entries, registry has %d", len(Names), len(reportCharts))
	}

	report := fullReport()
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			data, err := Render(name, report)
			if err != nil {
				t.Fatalf("Render(%q) error = %v", name, err)
			}
			if !bytes.HasPrefix(data, pngMagic) {
				t.Errorf("Render(%q) is not a PNG", name)
			}
		})
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := Render("pie", fullReport()); !errors.Is(err, ErrUnknownChart) {
		t.Errorf("expected ErrUnknownChart, got %v", err)
	}
	if _, err := Render("age", nil); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData for nil report, got %v", err)
	}
	if _, err := Render("city", &models.Report{}); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData for empty cities, got %v", err)
	}
}
