package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sales-dashboard/internal/cache"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/rfm"
)

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestAnalytics(t *testing.T, options ...Option) *Analytics {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	base := []Option{WithLogger(logger), WithCacheDir(t.TempDir())}
	return NewAnalytics(append(base, options...)...)
}

func TestNewAnalytics(t *testing.T) {
	a := NewAnalytics()
	if a == nil {
		t.Fatal("NewAnalytics() returned nil")
	}
	if a.dataset == nil {
		t.Error("dataset should be initialized")
	}
	if a.logger == nil {
		t.Error("logger should be initialized")
	}
	if a.reports == nil {
		t.Error("report cache should default to a no-op store")
	}
}

func TestAnalytics_LoadFromCSV(t *testing.T) {
	path := createTempCSV(t, sampleCSV)
	a := newTestAnalytics(t)

	if err := a.LoadFromCSV(context.Background(), path); err != nil {
		t.Fatalf("LoadFromCSV() error = %v", err)
	}
	if got := len(a.Orders()); got != 4 {
		t.Errorf("loaded %d orders, want 4", got)
	}

	first, last, ok := a.DateBounds()
	if !ok || !first.Equal(day(2023, 1, 15)) || !last.Equal(day(2023, 3, 5)) {
		t.Errorf("DateBounds() = %v, %v, %v", first, last, ok)
	}
}

func TestAnalytics_LoadFromCSV_UsesSnapshot(t *testing.T) {
	path := createTempCSV(t, sampleCSV)
	dir := t.TempDir()

	a := newTestAnalytics(t, WithCacheDir(dir))
	if err := a.LoadFromCSV(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(a.getCacheFilename(path)); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}

	b := newTestAnalytics(t, WithCacheDir(dir))
	if err := b.LoadFromCSV(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	if len(b.Orders()) != len(a.Orders()) {
		t.Errorf("snapshot load returned %d orders, want %d", len(b.Orders()), len(a.Orders()))
	}
}

func TestAnalytics_LoadFromCSV_Invalid(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty file", ""},
		{"header only", "order_id,customer_id,order_date,total_price\n"},
		{"missing columns", "a,b,c\n1,2,3\n"},
		{"no usable rows", "order_id,customer_id,order_date,total_price\n,,2023-01-01,5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalytics(t)
			if err := a.LoadFromCSV(context.Background(), createTempCSV(t, tt.csv)); err == nil {
				t.Error("LoadFromCSV() expected error")
			}
		})
	}
}

func TestAnalytics_LoadFromCSV_MissingFile(t *testing.T) {
	a := newTestAnalytics(t)
	if err := a.LoadFromCSV(context.Background(), filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

type fakeSource struct {
	orders []models.Order
	err    error
}

func (f fakeSource) Name() string { return "fake" }

func (f fakeSource) LoadOrders(context.Context) ([]models.Order, error) {
	return f.orders, f.err
}

func TestAnalytics_LoadFromSource(t *testing.T) {
	a := newTestAnalytics(t)
	if err := a.LoadFromSource(context.Background(), fakeSource{orders: testOrders()}); err != nil {
		t.Fatalf("LoadFromSource() error = %v", err)
	}
	if a.Stats()["source"] != "fake" {
		t.Errorf("source = %v, want fake", a.Stats()["source"])
	}

	boom := errors.New("boom")
	if err := a.LoadFromSource(context.Background(), fakeSource{err: boom}); !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped boom", err)
	}
	if err := a.LoadFromSource(context.Background(), fakeSource{}); err == nil {
		t.Error("empty source should fail")
	}
}

func TestAnalytics_Report(t *testing.T) {
	store := cache.NewMemory()
	a := newTestAnalytics(t, WithReportCache(store, time.Minute))
	a.SetData(testOrders())

	ctx := context.Background()
	report, err := a.Report(ctx, day(2023, 1, 1), day(2023, 12, 31))
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if report.OrderCount != 4 {
		t.Errorf("OrderCount = %d, want 4 orders in 2023", report.OrderCount)
	}
	if store.Len() != 1 {
		t.Errorf("cache has %d entries, want 1", store.Len())
	}

	again, err := a.Report(ctx, day(2023, 1, 1), day(2023, 12, 31))
	if err != nil {
		t.Fatal(err)
	}
	if again.OrderCount != report.OrderCount || len(again.Segments) != len(report.Segments) {
		t.Error("cached report differs from the computed one")
	}
	if a.Stats()["cache_hits"].(int64) != 1 {
		t.Errorf("cache_hits = %v, want 1", a.Stats()["cache_hits"])
	}

	// Reloading data invalidates cached reports by key.
	a.SetData(testOrders()[:2])
	fresh, err := a.Report(ctx, day(2023, 1, 1), day(2023, 12, 31))
	if err != nil {
		t.Fatal(err)
	}
	if fresh.OrderCount != 2 {
		t.Errorf("OrderCount after reload = %d, want 2", fresh.OrderCount)
	}
}

func TestAnalytics_Report_Errors(t *testing.T) {
	a := newTestAnalytics(t)
	a.SetData(testOrders())
	ctx := context.Background()

	if _, err := a.Report(ctx, day(2023, 2, 1), day(2023, 1, 1)); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("reversed range error = %v, want ErrInvalidRange", err)
	}
	if _, err := a.Report(ctx, day(2030, 1, 1), day(2030, 2, 1)); !errors.Is(err, rfm.ErrEmptyInput) {
		t.Errorf("empty range error = %v, want rfm.ErrEmptyInput", err)
	}
}

func TestAnalytics_ConcurrentAccess(t *testing.T) {
	a := newTestAnalytics(t, WithReportCache(cache.NewMemory(), time.Minute))
	a.SetData(testOrders())

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- true }()
			_, _ = a.Report(context.Background(), time.Time{}, time.Time{})
			_ = a.Stats()
			_ = a.Orders()
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestAnalytics_Stats(t *testing.T) {
	a := newTestAnalytics(t)
	a.SetData(testOrders())

	stats := a.Stats()
	if stats["record_count"].(int64) != 6 {
		t.Errorf("record_count = %v, want 6", stats["record_count"])
	}
	if stats["first_order"] != "2022-06-01" || stats["last_order"] != "2023-03-01" {
		t.Errorf("order bounds = %v..%v", stats["first_order"], stats["last_order"])
	}
}
