package services

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/currency"
	"sales-dashboard/internal/geo"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/rfm"
)

const (
	defaultTopN = 10
	defaultBins = 20
)

type ReportOptions struct {
	TopN      int
	Bins      int
	Formatter *currency.Formatter
}

func (o ReportOptions) withDefaults() ReportOptions {
	if o.TopN <= 0 {
		o.TopN = defaultTopN
	}
	if o.Bins <= 0 {
		o.Bins = defaultBins
	}
	return o
}

func (o ReportOptions) format(v float64) string {
	if o.Formatter == nil {
		return fmt.Sprintf("%.2f", v)
	}
	return o.Formatter.Format(v)
}

// BuildReport aggregates orders into every dashboard view. orders is expected
// to be filtered to the requested range already; start and end are recorded
// on the report as given. Orders without a valid date are ignored. When none
// remain, the error wraps rfm.ErrEmptyInput.
func BuildReport(orders []models.Order, start, end time.Time, opts ReportOptions) (*models.Report, error) {
	opts = opts.withDefaults()

	valid := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if !o.OrderDate.IsZero() {
			valid = append(valid, o)
		}
	}

	customers, err := rfm.Compute(valid)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	segments := rfm.Segment(customers)

	totalSales, totalPayment := decimal.Zero, decimal.Zero
	for _, o := range valid {
		totalSales = totalSales.Add(decimal.NewFromFloat(o.TotalPrice))
		totalPayment = totalPayment.Add(decimal.NewFromFloat(o.Payment))
	}

	summary := rfm.Summarize(customers)
	summary.AvgMonetaryLabel = opts.format(summary.AvgMonetary)

	products := productSales(valid)
	salesByState := sumBy(valid, func(o models.Order) string { return o.State })

	report := &models.Report{
		Start:           start,
		End:             end,
		OrderCount:      len(valid),
		TotalSales:      totalSales.InexactFloat64(),
		TotalPayment:    totalPayment.InexactFloat64(),
		DailySales:      dailySales(valid),
		MonthlySales:    monthlySales(valid),
		TopProducts:     head(products, opts.TopN),
		BottomProducts:  tail(products, opts.TopN),
		RFM:             customers,
		RFMSummary:      summary,
		RFMDistribution: rfmDistribution(customers, opts.Bins),
		Segments:        segments,
		SegmentCounts:   rfm.CountSegments(segments),
		Choropleth:      geo.Shade(salesByState),
		GeneratedAt:     time.Now().UTC(),
		Demographics: models.Demographics{
			AgeHistogram:  ageHistogram(valid, opts.Bins),
			SalesByState:  salesByState,
			TopCities:     head(citySales(valid), opts.TopN),
			SalesByGender: sumBy(valid, func(o models.Order) string { return o.Gender }),
		},
	}
	report.TotalSalesLabel = opts.format(report.TotalSales)
	report.TotalPaymentLabel = opts.format(report.TotalPayment)

	return report, nil
}

func dailySales(orders []models.Order) []models.DailySales {
	groups := make(map[string]float64)
	for _, o := range orders {
		groups[o.OrderDate.Format(time.DateOnly)] += o.TotalPrice
	}

	result := make([]models.DailySales, 0, len(groups))
	for d, v := range groups {
		result = append(result, models.DailySales{Date: d, Sales: v})
	}
	slices.SortFunc(result, func(a, b models.DailySales) int {
		return strings.Compare(a.Date, b.Date)
	})
	return result
}

func monthlySales(orders []models.Order) []models.MonthlySales {
	type key struct{ year, month int }
	groups := make(map[key]float64)
	for _, o := range orders {
		year := o.OrderYear
		if year == 0 {
			year = o.OrderDate.Year()
		}
		groups[key{year, int(o.OrderDate.Month())}] += o.TotalPrice
	}

	result := make([]models.MonthlySales, 0, len(groups))
	for k, v := range groups {
		result = append(result, models.MonthlySales{Year: k.year, Month: k.month, Sales: v})
	}
	slices.SortFunc(result, func(a, b models.MonthlySales) int {
		return cmp.Or(cmp.Compare(a.Year, b.Year), cmp.Compare(a.Month, b.Month))
	})
	return result
}

// productSales ranks products by units sold, descending.
func productSales(orders []models.Order) []models.ProductSales {
	groups := make(map[string]*models.ProductSales)
	for _, o := range orders {
		if groups[o.ProductName] == nil {
			groups[o.ProductName] = &models.ProductSales{ProductName: o.ProductName}
		}
		groups[o.ProductName].Quantity += o.Quantity
		groups[o.ProductName].TotalPrice += o.TotalPrice
	}

	result := make([]models.ProductSales, 0, len(groups))
	for _, p := range groups {
		result = append(result, *p)
	}
	slices.SortFunc(result, func(a, b models.ProductSales) int {
		return cmp.Or(cmp.Compare(b.Quantity, a.Quantity), strings.Compare(a.ProductName, b.ProductName))
	})
	return result
}

// citySales ranks cities by revenue, descending.
func citySales(orders []models.Order) []models.CitySales {
	groups := make(map[string]*models.CitySales)
	for _, o := range orders {
		if groups[o.City] == nil {
			groups[o.City] = &models.CitySales{City: o.City}
		}
		groups[o.City].Quantity += o.Quantity
		groups[o.City].TotalPrice += o.TotalPrice
	}

	result := make([]models.CitySales, 0, len(groups))
	for _, c := range groups {
		result = append(result, *c)
	}
	slices.SortFunc(result, func(a, b models.CitySales) int {
		return cmp.Or(cmp.Compare(b.TotalPrice, a.TotalPrice), strings.Compare(a.City, b.City))
	})
	return result
}

// sumBy totals revenue per key, descending. Empty keys are skipped.
func sumBy(orders []models.Order, key func(models.Order) string) []models.KeyedSales {
	groups := make(map[string]float64)
	for _, o := range orders {
		k := key(o)
		if k == "" {
			continue
		}
		groups[k] += o.TotalPrice
	}

	result := make([]models.KeyedSales, 0, len(groups))
	for k, v := range groups {
		result = append(result, models.KeyedSales{Key: k, Sales: v})
	}
	slices.SortFunc(result, func(a, b models.KeyedSales) int {
		return cmp.Or(cmp.Compare(b.Sales, a.Sales), strings.Compare(a.Key, b.Key))
	})
	return result
}

func ageHistogram(orders []models.Order, bins int) []models.HistogramBin {
	ages := make([]float64, 0, len(orders))
	for _, o := range orders {
		if o.Age > 0 {
			ages = append(ages, float64(o.Age))
		}
	}
	return Histogram(ages, bins)
}

func rfmDistribution(customers []models.CustomerRFM, bins int) models.RFMDistribution {
	recency := make([]float64, len(customers))
	frequency := make([]float64, len(customers))
	monetary := make([]float64, len(customers))
	for i, c := range customers {
		recency[i] = float64(c.Recency)
		frequency[i] = float64(c.Frequency)
		monetary[i] = c.Monetary
	}
	return models.RFMDistribution{
		Recency:   Histogram(recency, bins),
		Frequency: Histogram(frequency, bins),
		Monetary:  Histogram(monetary, bins),
	}
}

func head[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func tail[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
