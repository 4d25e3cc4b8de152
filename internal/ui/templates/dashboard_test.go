package templates

import (
	"context"
	"strings"
	"testing"

	"sales-dashboard/internal/models"
)

func TestDashboard(t *testing.T) {
	report := &models.Report{
		OrderCount:      4,
		TotalSalesLabel: "AUD 1.270,00",
		SegmentCounts: []models.SegmentCount{
			{Segment: models.AtRisk, Label: "At Risk", Count: 1},
		},
	}

	var b strings.Builder
	err := Dashboard(DashboardProps{Start: "2023-01-01", End: "2023-03-05", Report: report}).Render(context.Background(), &b)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := b.String()

	want := []string{
		"<title>Sales Dashboard</title>",
		`data-signals="{start: &#39;2023-01-01&#39;, end: &#39;2023-03-05&#39;}"`,
		"data-bind:start",
		"@get('/sse/refresh')",
		`id="summary"`,
		"AUD 1.270,00",
		"At Risk",
		"/export/report.xlsx",
	}
	for _, s := range want {
		if !strings.Contains(html, s) {
			t.Errorf("dashboard missing %q", s)
		}
	}
	for _, c := range Charts {
		if !strings.Contains(html, "/charts/"+c.Name+".png") {
			t.Errorf("dashboard missing chart %s", c.Name)
		}
	}
}

func TestDashboard_EscapesTitle(t *testing.T) {
	var b strings.Builder
	if err := Dashboard(DashboardProps{Title: "<script>x</script>"}).Render(context.Background(), &b); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(b.String(), "<script>x</script>") {
		t.Error("title was not escaped")
	}
}

func TestDashboard_LiveChartSources(t *testing.T) {
	var b strings.Builder
	if err := Dashboard(DashboardProps{}).Render(context.Background(), &b); err != nil {
		t.Fatal(err)
	}
	want := `data-attr:src="&#39;/charts/age.png?start=&#39; + $start + &#39;&amp;end=&#39; + $end"`
	if !strings.Contains(b.String(), want) {
		t.Errorf("age chart is not bound to the range signals")
	}
}

func TestSummary_Stats(t *testing.T) {
	report := &models.Report{
		OrderCount: 12,
		RFMSummary: models.RFMSummary{Customers: 3, AvgRecency: 10.26, AvgFrequency: 1.5, AvgMonetaryLabel: "AUD 40,00"},
		SegmentCounts: []models.SegmentCount{
			{Segment: models.BestCustomers, Label: "Best Customers", Count: 2},
		},
	}

	var b strings.Builder
	if err := Summary(report).Render(context.Background(), &b); err != nil {
		t.Fatal(err)
	}
	html := b.String()
	for _, s := range []string{">12<", ">3<", ">10.3<", ">1.50<", "AUD 40,00", "<td>Best Customers</td><td>2</td>"} {
		if !strings.Contains(html, s) {
			t.Errorf("summary missing %q", s)
		}
	}
}

func TestNotice_Escapes(t *testing.T) {
	var b strings.Builder
	if err := Notice("<b>boom</b>").Render(context.Background(), &b); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), `<p class="error">&lt;b&gt;boom&lt;/b&gt;</p>`) {
		t.Errorf("unexpected notice: %s", b.String())
	}
}

func TestSummary_NilReport(t *testing.T) {
	var b strings.Builder
	if err := Summary(nil).Render(context.Background(), &b); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "No orders in the selected range") {
		t.Errorf("unexpected empty summary: %s", b.String())
	}
}
