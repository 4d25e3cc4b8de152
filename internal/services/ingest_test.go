package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"
)

const sampleCSV = `order_id,customer_id,order_date,total_price,payment,product_name,quantity_x,age,gender,state,city,order_year
1,C1,2023-01-15,120.50,120.50,Laptop,1,34,Female,Victoria,Melbourne,2023
2,C2,2023-02-01 10:30:00,80,75,Mouse,3,27,Male,Queensland,Brisbane,2023
3,C1,not-a-date,40,40,Mouse,1,34,Female,Victoria,Melbourne,2023
4,C3,03/05/2023,200,200,Keyboard,2,,Male,New South Wales,Sydney,
,C4,2023-03-06,10,10,Mouse,1,50,Male,Tasmania,Hobart,2023
`

func TestParseOrders(t *testing.T) {
	orders, err := ParseOrders(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseOrders() error = %v", err)
	}

	// The row without an order id is dropped; the bad date row is kept.
	if len(orders) != 4 {
		t.Fatalf("got %d orders, want 4", len(orders))
	}

	first := orders[0]
	if first.OrderID != "1" || first.CustomerID != "C1" || first.ProductName != "Laptop" {
		t.Errorf("first order = %+v", first)
	}
	if !first.OrderDate.Equal(time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first order date = %v", first.OrderDate)
	}
	if first.TotalPrice != 120.50 || first.Payment != 120.50 || first.Quantity != 1 || first.Age != 34 {
		t.Errorf("first order numbers = %+v", first)
	}
	if first.State != "Victoria" || first.City != "Melbourne" || first.Gender != "Female" || first.OrderYear != 2023 {
		t.Errorf("first order attributes = %+v", first)
	}

	if orders[1].OrderDate.Hour() != 10 {
		t.Errorf("datetime layout not parsed: %v", orders[1].OrderDate)
	}
	if !orders[2].OrderDate.IsZero() {
		t.Errorf("unparseable date should be zero, got %v", orders[2].OrderDate)
	}

	fourth := orders[3]
	if !fourth.OrderDate.Equal(time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("month-first date = %v, want 2023-03-05", fourth.OrderDate)
	}
	if fourth.Age != 0 {
		t.Errorf("missing age = %d, want 0", fourth.Age)
	}
	if fourth.OrderYear != 2023 {
		t.Errorf("order year should default to the date year, got %d", fourth.OrderYear)
	}
}

func TestParseOrders_HeaderVariants(t *testing.T) {
	csv := "\ufeffOrder_ID, Customer_ID ,ORDER_DATE,Total_Price,Quantity\n9,C9,2024-06-01,15.5,4\n"
	orders, err := ParseOrders(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseOrders() error = %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1", len(orders))
	}
	if orders[0].Quantity != 4 || orders[0].TotalPrice != 15.5 {
		t.Errorf("order = %+v", orders[0])
	}
}

func TestParseOrders_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr error
	}{
		{name: "empty file", csv: "", wantErr: ErrEmptyFile},
		{name: "missing required columns", csv: "order_id,customer_id\n1,C1\n"},
		{name: "broken quoting", csv: "order_id,customer_id,order_date,total_price\n1,\"C1,2023-01-01,5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOrders(context.Background(), strings.NewReader(tt.csv))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseOrders_ManyBatches(t *testing.T) {
	var b strings.Builder
	b.WriteString("order_id,customer_id,order_date,total_price\n")
	const rows = batchSize*2 + 17
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%d,C%d,2023-01-%02d,1\n", i, i%40, i%28+1)
	}

	orders, err := ParseOrders(context.Background(), strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("ParseOrders() error = %v", err)
	}
	if len(orders) != rows {
		t.Fatalf("got %d orders, want %d", len(orders), rows)
	}
	for i, o := range orders {
		if o.OrderID != fmt.Sprint(i) {
			t.Fatalf("order %d has id %s, file order not preserved", i, o.OrderID)
		}
	}
}

func TestParseOrders_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseOrders(ctx, strings.NewReader(sampleCSV))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2023-04-05", time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC)},
		{"2023-04-05 13:14:15", time.Date(2023, 4, 5, 13, 14, 15, 0, time.UTC)},
		{"2023-04-05T13:14:15Z", time.Date(2023, 4, 5, 13, 14, 15, 0, time.UTC)},
		{"2023/04/05", time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC)},
		{"4/5/2023", time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"yesterday", time.Time{}},
		{"2023-13-45", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseDate(tt.in); !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := map[string]int{"": 0, "7": 7, "34.0": 34, "abc": 0}
	for in, want := range tests {
		if got := parseInt(in); got != want {
			t.Errorf("parseInt(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseFloat(t *testing.T) {
	tests := map[string]float64{
		"":          0,
		"12.5":      12.5,
		"1,234.50":  1234.5,
		"-2,000":    -2000,
		"1,5":       0,
		"12,34,567": 0,
		"NaN":       0,
		"nan":       0,
		"inf":       0,
		"-Infinity": 0,
		"1e400":     0,
	}
	for in, want := range tests {
		if got := parseFloat(in); got != want {
			t.Errorf("parseFloat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseOrders_NonFiniteNumbers(t *testing.T) {
	const data = `order_id,customer_id,order_date,total_price,payment,age
O1,C1,2023-01-01,NaN,inf,NaN
O2,C1,2023-01-05,-Infinity,50,40
O3,C2,2023-01-07,25,nan,31
`
	orders, err := ParseOrders(context.Background(), strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseOrders() error = %v", err)
	}
	for _, o := range orders {
		if math.IsNaN(o.TotalPrice) || math.IsInf(o.TotalPrice, 0) || math.IsNaN(o.Payment) || math.IsInf(o.Payment, 0) {
			t.Fatalf("order %s kept a non-finite amount: %+v", o.OrderID, o)
		}
	}

	report, err := BuildReport(orders, time.Time{}, time.Time{}, ReportOptions{TopN: 5, Bins: 4})
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	if report.TotalSales != 25 || report.TotalPayment != 50 {
		t.Errorf("totals = %v / %v, want 25 / 50", report.TotalSales, report.TotalPayment)
	}
	if report.OrderCount != 3 {
		t.Errorf("OrderCount = %d, want 3", report.OrderCount)
	}
}
