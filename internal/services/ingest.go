package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
)

const (
	batchSize  = 10000
	maxWorkers = 10
)

var ErrEmptyFile = errors.New("empty file")

var thousandsPattern = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// columnAliases maps each order field to the header names accepted for it.
var columnAliases = map[string][]string{
	"order_id":     {"order_id"},
	"customer_id":  {"customer_id"},
	"order_date":   {"order_date"},
	"total_price":  {"total_price"},
	"payment":      {"payment", "payment_value"},
	"product_name": {"product_name"},
	"quantity":     {"quantity_x", "quantity"},
	"age":          {"age"},
	"gender":       {"gender"},
	"state":        {"state"},
	"city":         {"city"},
	"order_year":   {"order_year"},
}

var requiredColumns = []string{"order_id", "customer_id", "order_date", "total_price"}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
}

type columnIndex map[string]int

func (c columnIndex) get(record []string, field string) string {
	idx, ok := c[field]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func buildColumnIndex(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	idx := make(columnIndex, len(columnAliases))
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			if pos, ok := positions[alias]; ok {
				idx[field] = pos
				break
			}
		}
	}

	var missing []string
	for _, field := range requiredColumns {
		if _, ok := idx[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

// ParseOrders reads a CSV with a header row. Rows are parsed in batches on a
// bounded worker pool; the returned orders keep file order. Dates that fail
// to parse are kept as zero values so that downstream steps can drop them.
func ParseOrders(ctx context.Context, r io.Reader) ([]models.Order, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := buildColumnIndex(header)
	if err != nil {
		return nil, err
	}

	var batches [][][]string
	batch := make([][]string, 0, batchSize)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		batch = append(batch, record)
		if len(batch) >= batchSize {
			batches = append(batches, batch)
			batch = make([][]string, 0, batchSize)
		}
	}
	if len(batch) > 0 {
		batches = append(batches, batch)
	}

	parsed := make([][]models.Order, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for i, rows := range batches {
		g.Go(func() error {
			out := make([]models.Order, 0, len(rows))
			for _, record := range rows {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				if order, ok := parseOrder(cols, record); ok {
					out = append(out, order)
				}
			}
			parsed[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, p := range parsed {
		total += len(p)
	}
	orders := make([]models.Order, 0, total)
	for _, p := range parsed {
		orders = append(orders, p...)
	}
	return orders, nil
}

// parseOrder converts one CSV record. Rows without an order or customer id
// are rejected; every other malformed field degrades to its zero value.
func parseOrder(cols columnIndex, record []string) (models.Order, bool) {
	order := models.Order{
		OrderID:     cols.get(record, "order_id"),
		CustomerID:  cols.get(record, "customer_id"),
		OrderDate:   ParseDate(cols.get(record, "order_date")),
		TotalPrice:  parseFloat(cols.get(record, "total_price")),
		Payment:     parseFloat(cols.get(record, "payment")),
		ProductName: cols.get(record, "product_name"),
		Quantity:    parseInt(cols.get(record, "quantity")),
		Age:         parseInt(cols.get(record, "age")),
		Gender:      cols.get(record, "gender"),
		State:       cols.get(record, "state"),
		City:        cols.get(record, "city"),
		OrderYear:   parseInt(cols.get(record, "order_year")),
	}
	if order.OrderID == "" || order.CustomerID == "" {
		return models.Order{}, false
	}
	if order.OrderYear == 0 && !order.OrderDate.IsZero() {
		order.OrderYear = order.OrderDate.Year()
	}
	return order, true
}

// ParseDate tries the known layouts and returns the zero time when none match.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseFloat returns 0 for anything that is not a finite number. Commas are
// only accepted as thousands separators.
func parseFloat(s string) float64 {
	if thousandsPattern.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseInt(s string) int {
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	// Pandas writes integer columns with missing values as floats ("34.0").
	return int(parseFloat(s))
}
