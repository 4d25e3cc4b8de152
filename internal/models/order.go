package models

import "time"

// Order is one row of the sales dataset. A zero OrderDate marks a row whose
// date could not be parsed.
type Order struct {
	OrderID     string
	CustomerID  string
	OrderDate   time.Time
	TotalPrice  float64
	Payment     float64
	ProductName string
	Quantity    int
	Age         int
	Gender      string
	State       string
	City        string
	OrderYear   int
}

type DailySales struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

type MonthlySales struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Sales float64 `json:"sales"`
}

type ProductSales struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"total_price"`
}

type CitySales struct {
	City       string  `json:"city"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
}

// KeyedSales is a generic key/total pair used for state and gender breakdowns.
type KeyedSales struct {
	Key   string  `json:"key"`
	Sales float64 `json:"sales"`
}

type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}
