// Package templates holds the dashboard's HTML components. The .templ files
// are compiled with `templ generate`.
package templates

import (
	"fmt"

	"sales-dashboard/internal/models"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// Chart is one PNG figure served under /charts/{Name}.png.
type Chart struct {
	Name  string
	Title string
}

var Charts = []Chart{
	{"monthly-sales", "Monthly Sales"},
	{"top-products", "Best Performing Products"},
	{"bottom-products", "Worst Performing Products"},
	{"age", "Age Distribution"},
	{"state", "Sales by State"},
	{"city", "Top Cities"},
	{"gender", "Sales by Gender"},
	{"recency", "Recency Distribution"},
	{"frequency", "Frequency Distribution"},
	{"monetary", "Monetary Distribution"},
	{"segments", "Customer Segments"},
	{"choropleth", "Sales by State (shaded)"},
}

func (c Chart) src() string {
	return "/charts/" + c.Name + ".png"
}

// liveSrc is the Datastar expression that keeps the image in step with the
// range signals.
func (c Chart) liveSrc() string {
	return "'" + c.src() + "?start=' + $start + '&end=' + $end"
}

type DashboardProps struct {
	Title  string
	Start  string
	End    string
	Report *models.Report
}

func (p DashboardProps) title() string {
	if p.Title == "" {
		return "Sales Dashboard"
	}
	return p.Title
}

func (p DashboardProps) signals() string {
	return fmt.Sprintf("{start: '%s', end: '%s'}", p.Start, p.End)
}

type stat struct {
	Label string
	Value string
}

func summaryStats(r *models.Report) []stat {
	return []stat{
		{"Orders", fmt.Sprintf("%d", r.OrderCount)},
		{"Total Sales", r.TotalSalesLabel},
		{"Total Payment", r.TotalPaymentLabel},
		{"Customers", fmt.Sprintf("%d", r.RFMSummary.Customers)},
		{"Avg Recency (days)", fmt.Sprintf("%.1f", r.RFMSummary.AvgRecency)},
		{"Avg Frequency", fmt.Sprintf("%.2f", r.RFMSummary.AvgFrequency)},
		{"Avg Monetary", r.RFMSummary.AvgMonetaryLabel},
	}
}
