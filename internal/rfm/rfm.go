// Package rfm derives per-customer Recency, Frequency and Monetary metrics
// from order rows and assigns each customer a fixed-threshold segment.
package rfm

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

const day = 24 * time.Hour

// ErrEmptyInput is returned when no order carries a usable date, leaving no
// reference date to measure recency from.
var ErrEmptyInput = errors.New("rfm: no orders with a valid order date")

type customerAgg struct {
	lastOrder time.Time
	orders    map[string]struct{}
	monetary  decimal.Decimal
}

// Compute returns one CustomerRFM per distinct customer found in orders.
// Rows with a zero OrderDate are ignored. The result is sorted by customer id.
func Compute(orders []models.Order) ([]models.CustomerRFM, error) {
	var reference time.Time
	groups := make(map[string]*customerAgg)

	for _, o := range orders {
		if o.OrderDate.IsZero() {
			continue
		}
		if o.OrderDate.After(reference) {
			reference = o.OrderDate
		}

		agg := groups[o.CustomerID]
		if agg == nil {
			agg = &customerAgg{orders: make(map[string]struct{})}
			groups[o.CustomerID] = agg
		}
		if o.OrderDate.After(agg.lastOrder) {
			agg.lastOrder = o.OrderDate
		}
		agg.orders[o.OrderID] = struct{}{}
		agg.monetary = agg.monetary.Add(decimal.NewFromFloat(o.TotalPrice))
	}

	if len(groups) == 0 {
		return nil, ErrEmptyInput
	}

	result := make([]models.CustomerRFM, 0, len(groups))
	for id, agg := range groups {
		result = append(result, models.CustomerRFM{
			CustomerID: id,
			Recency:    int(reference.Sub(agg.lastOrder) / day),
			Frequency:  len(agg.orders),
			Monetary:   agg.monetary.InexactFloat64(),
		})
	}
	slices.SortFunc(result, func(a, b models.CustomerRFM) int {
		return strings.Compare(a.CustomerID, b.CustomerID)
	})
	return result, nil
}

// Summarize averages the metrics across customers. An empty slice yields a
// zero summary.
func Summarize(customers []models.CustomerRFM) models.RFMSummary {
	if len(customers) == 0 {
		return models.RFMSummary{}
	}

	var recency, frequency int
	monetary := decimal.Zero
	for _, c := range customers {
		recency += c.Recency
		frequency += c.Frequency
		monetary = monetary.Add(decimal.NewFromFloat(c.Monetary))
	}

	n := float64(len(customers))
	return models.RFMSummary{
		Customers:    len(customers),
		AvgRecency:   round2(float64(recency) / n),
		AvgFrequency: round2(float64(frequency) / n),
		AvgMonetary:  monetary.Div(decimal.NewFromInt(int64(len(customers)))).Round(2).InexactFloat64(),
	}
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
