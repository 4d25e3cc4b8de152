package charts

import (
	"errors"
	"fmt"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"sales-dashboard/internal/models"
)

var ErrUnknownChart = errors.New("charts: unknown chart")

type renderer func(*models.Report) ([]byte, error)

var reportCharts = map[string]renderer{
	"monthly-sales": monthlySalesChart,
	"top-products": func(r *models.Report) ([]byte, error) {
		return productChart("Best Performing Products", r.TopProducts)
	},
	"bottom-products": func(r *models.Report) ([]byte, error) {
		return productChart("Worst Performing Products", r.BottomProducts)
	},
	"age": func(r *models.Report) ([]byte, error) {
		return Bins(Spec{Title: "Age Distribution", XLabel: "Age", YLabel: "Orders"}, r.Demographics.AgeHistogram)
	},
	"state": func(r *models.Report) ([]byte, error) {
		return keyedChart(Spec{Title: "Sales by State", XLabel: "State", YLabel: "Total Sales", Width: 14 * vg.Inch}, r.Demographics.SalesByState)
	},
	"city": cityChart,
	"gender": func(r *models.Report) ([]byte, error) {
		return keyedChart(Spec{Title: "Sales by Gender", XLabel: "Gender", YLabel: "Total Sales", Width: 6 * vg.Inch}, r.Demographics.SalesByGender)
	},
	"recency": func(r *models.Report) ([]byte, error) {
		return Bins(Spec{Title: "Recency", XLabel: "Days since last order", YLabel: "Customers"}, r.RFMDistribution.Recency)
	},
	"frequency": func(r *models.Report) ([]byte, error) {
		return Bins(Spec{Title: "Frequency", XLabel: "Orders", YLabel: "Customers"}, r.RFMDistribution.Frequency)
	},
	"monetary": func(r *models.Report) ([]byte, error) {
		return Bins(Spec{Title: "Monetary", XLabel: "Total spent", YLabel: "Customers"}, r.RFMDistribution.Monetary)
	},
	"segments": segmentChart,
	"choropleth": func(r *models.Report) ([]byte, error) {
		return Choropleth(Spec{Title: "Total Sales by State", XLabel: "State", YLabel: "Total Sales", Width: 14 * vg.Inch}, r.Choropleth)
	},
}

// Names lists every chart Render knows, in dashboard order.
var Names = []string{
	"monthly-sales", "top-products", "bottom-products", "age", "state", "city",
	"gender", "recency", "frequency", "monetary", "segments", "choropleth",
}

// Render draws the named dashboard chart for a report.
func Render(name string, report *models.Report) ([]byte, error) {
	fn, ok := reportCharts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	if report == nil {
		return nil, ErrNoData
	}
	return fn(report)
}

var monthTicks = func() []plot.Tick {
	names := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	ticks := make([]plot.Tick, len(names))
	for i, n := range names {
		ticks[i] = plot.Tick{Value: float64(i + 1), Label: n}
	}
	return ticks
}()

// monthlySalesChart draws one line per order year over the months.
func monthlySalesChart(r *models.Report) ([]byte, error) {
	byYear := make(map[int]int)
	var series []Series
	for _, m := range r.MonthlySales {
		idx, ok := byYear[m.Year]
		if !ok {
			idx = len(series)
			byYear[m.Year] = idx
			series = append(series, Series{Name: strconv.Itoa(m.Year)})
		}
		series[idx].Points = append(series[idx].Points, Point{X: float64(m.Month), Y: m.Sales})
	}
	return Line(Spec{Title: "Monthly Sales", XLabel: "Month", YLabel: "Total Sales"}, series, monthTicks)
}

func productChart(title string, products []models.ProductSales) ([]byte, error) {
	labels := make([]string, len(products))
	values := make([]float64, len(products))
	for i, p := range products {
		labels[i] = p.ProductName
		values[i] = float64(p.Quantity)
	}
	return Bar(Spec{Title: title, XLabel: "Product", YLabel: "Quantity"}, labels, values)
}

func keyedChart(spec Spec, sales []models.KeyedSales) ([]byte, error) {
	labels := make([]string, len(sales))
	values := make([]float64, len(sales))
	for i, s := range sales {
		labels[i] = s.Key
		values[i] = s.Sales
	}
	return Bar(spec, labels, values)
}

func cityChart(r *models.Report) ([]byte, error) {
	cities := r.Demographics.TopCities
	labels := make([]string, len(cities))
	values := make([]float64, len(cities))
	for i, c := range cities {
		labels[i] = c.City
		values[i] = c.TotalPrice
	}
	return Bar(Spec{Title: "Top Cities by Sales", XLabel: "City", YLabel: "Total Sales"}, labels, values)
}

func segmentChart(r *models.Report) ([]byte, error) {
	labels := make([]string, len(r.SegmentCounts))
	counts := make([]int, len(r.SegmentCounts))
	for i, s := range r.SegmentCounts {
		labels[i] = s.Label
		counts[i] = s.Count
	}
	return Count(Spec{Title: "Customer Segmentation", XLabel: "Segment", YLabel: "Customers"}, labels, counts)
}
