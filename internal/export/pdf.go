package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"sales-dashboard/internal/models"
)

var (
	darkGray   = color.Color{Red: 38, Green: 38, Blue: 34}
	mediumGray = color.Color{Red: 121, Green: 119, Blue: 109}
)

// PDF renders a one page summary of the report.
func PDF(report *models.Report) (bytes.Buffer, error) {
	if report == nil {
		return bytes.Buffer{}, ErrNilReport
	}

	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 20, 20)

	m.Row(15, func() {
		m.Col(12, func() {
			m.Text("SALES REPORT", props.Text{
				Size:  22,
				Style: consts.Bold,
				Color: darkGray,
			})
		})
	})
	m.Row(6, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("%s to %s", formatDay(report.Start), formatDay(report.End)), props.Text{
				Size:  10,
				Color: mediumGray,
			})
		})
	})
	m.Row(8, func() {})

	section(m, "SUMMARY")
	pair(m, "Orders", fmt.Sprintf("%d", report.OrderCount))
	pair(m, "Total sales", report.TotalSalesLabel)
	pair(m, "Total payment", report.TotalPaymentLabel)
	pair(m, "Customers", fmt.Sprintf("%d", report.RFMSummary.Customers))
	pair(m, "Average recency", fmt.Sprintf("%.2f days", report.RFMSummary.AvgRecency))
	pair(m, "Average frequency", fmt.Sprintf("%.2f", report.RFMSummary.AvgFrequency))
	pair(m, "Average monetary", report.RFMSummary.AvgMonetaryLabel)
	m.Row(6, func() {})

	section(m, "CUSTOMER SEGMENTS")
	for _, s := range report.SegmentCounts {
		pair(m, s.Label, fmt.Sprintf("%d", s.Count))
	}
	m.Row(6, func() {})

	section(m, "TOP PRODUCTS")
	limit := min(len(report.TopProducts), 5)
	for _, p := range report.TopProducts[:limit] {
		pair(m, p.ProductName, fmt.Sprintf("%d units", p.Quantity))
	}
	m.Row(6, func() {})

	section(m, "SALES BY STATE")
	for _, s := range report.Demographics.SalesByState {
		pair(m, s.Key, fmt.Sprintf("%.2f", s.Sales))
	}

	m.Row(10, func() {})
	m.Row(5, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("Generated %s", report.GeneratedAt.Format("Jan 02, 2006 15:04")), props.Text{
				Size:  8,
				Color: mediumGray,
			})
		})
	})

	buf, err := m.Output()
	if err != nil {
		return bytes.Buffer{}, fmt.Errorf("render pdf: %w", err)
	}
	return buf, nil
}

func section(m pdf.Maroto, title string) {
	m.Row(7, func() {
		m.Col(12, func() {
			m.Text(title, props.Text{
				Size:  10,
				Style: consts.Bold,
				Color: darkGray,
			})
		})
	})
}

func pair(m pdf.Maroto, label, value string) {
	m.Row(5, func() {
		m.Col(8, func() {
			m.Text(label, props.Text{
				Size:  9,
				Color: mediumGray,
			})
		})
		m.Col(4, func() {
			m.Text(value, props.Text{
				Size:  9,
				Color: darkGray,
				Align: consts.Right,
			})
		})
	})
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
