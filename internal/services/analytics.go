package services

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"sales-dashboard/internal/cache"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

const (
	cacheVersion    = "v2"
	defaultCacheDir = ".cache"
	defaultTTL      = 5 * time.Minute
)

// OrderSource loads the full order dataset from somewhere other than a CSV
// file, e.g. a database table.
type OrderSource interface {
	Name() string
	LoadOrders(ctx context.Context) ([]models.Order, error)
}

// Dataset is the loaded order set. It is replaced wholesale on reload and
// never mutated in place.
type Dataset struct {
	Orders       []models.Order
	Source       string
	LastModified time.Time
	RecordCount  int64
}

type Analytics struct {
	mu               sync.RWMutex
	dataset          *Dataset
	recordsProcessed atomic.Int64
	cacheHits        atomic.Int64
	cacheDir         string
	reports          cache.Store
	reportTTL        time.Duration
	opts             ReportOptions
	logger           *slog.Logger
}

type Option func(*Analytics)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Analytics) { a.logger = logger }
}

// WithCacheDir sets where parsed CSV snapshots are kept. An empty dir
// disables the snapshot cache.
func WithCacheDir(dir string) Option {
	return func(a *Analytics) { a.cacheDir = dir }
}

func WithReportCache(store cache.Store, ttl time.Duration) Option {
	return func(a *Analytics) {
		a.reports = store
		a.reportTTL = ttl
	}
}

func WithReportOptions(opts ReportOptions) Option {
	return func(a *Analytics) { a.opts = opts }
}

func NewAnalytics(options ...Option) *Analytics {
	a := &Analytics{
		dataset:   &Dataset{},
		cacheDir:  defaultCacheDir,
		reports:   cache.Noop{},
		reportTTL: defaultTTL,
		logger:    slog.Default(),
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// SetData replaces the dataset with orders.
func (a *Analytics) SetData(orders []models.Order) {
	a.setDataset(&Dataset{
		Orders:       orders,
		Source:       "memory",
		LastModified: time.Now(),
		RecordCount:  int64(len(orders)),
	})
}

func (a *Analytics) setDataset(ds *Dataset) {
	a.mu.Lock()
	a.dataset = ds
	a.mu.Unlock()
	a.recordsProcessed.Store(ds.RecordCount)
}

func (a *Analytics) LoadFromCSV(ctx context.Context, filename string) error {
	// Check if we have a valid snapshot
	if cached, err := a.loadFromCache(filename); err == nil {
		fileInfo, err := os.Stat(filename)
		if err == nil && fileInfo.ModTime().Before(cached.LastModified) {
			a.setDataset(cached)
			a.logger.Info("loaded from cache", "records", cached.RecordCount)
			return nil
		}
	}

	start := time.Now()
	a.logger.Info("processing CSV file", "filename", filename)

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	orders, err := ParseOrders(ctx, file)
	if err != nil {
		return fmt.Errorf("process csv: %w", err)
	}
	if len(orders) == 0 {
		return fmt.Errorf("no valid records found")
	}

	a.setDataset(&Dataset{
		Orders:       orders,
		Source:       filename,
		LastModified: time.Now(),
		RecordCount:  int64(len(orders)),
	})

	if err := a.saveToCache(filename); err != nil {
		a.logger.Warn("failed to save cache", "error", err)
	}

	duration := time.Since(start)
	count := a.recordsProcessed.Load()
	a.logger.Info("csv processing complete",
		"records", count,
		"duration", duration,
		"rate", fmt.Sprintf("%.0f records/sec", float64(count)/duration.Seconds()))

	return nil
}

func (a *Analytics) LoadFromSource(ctx context.Context, src OrderSource) error {
	start := time.Now()
	orders, err := src.LoadOrders(ctx)
	if err != nil {
		return fmt.Errorf("load from %s: %w", src.Name(), err)
	}
	if len(orders) == 0 {
		return fmt.Errorf("no valid records found in %s", src.Name())
	}

	a.setDataset(&Dataset{
		Orders:       orders,
		Source:       src.Name(),
		LastModified: time.Now(),
		RecordCount:  int64(len(orders)),
	})
	a.logger.Info("orders loaded", "source", src.Name(), "records", len(orders), "duration", time.Since(start))
	return nil
}

// Orders returns the loaded orders. Callers must not modify the slice.
func (a *Analytics) Orders() []models.Order {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.dataset.Orders
}

// DateBounds reports the first and last valid order dates of the dataset.
func (a *Analytics) DateBounds() (time.Time, time.Time, bool) {
	return DateBounds(a.Orders())
}

// Report builds the dashboard report for [start, end]. Zero bounds are open.
// Results are cached per dataset and range.
func (a *Analytics) Report(ctx context.Context, start, end time.Time) (*models.Report, error) {
	ctx, span := observability.StartSpan(ctx, "analytics.report")
	defer span.Log(ctx, a.logger)

	a.mu.RLock()
	ds := a.dataset
	a.mu.RUnlock()

	key := reportKey(ds, start, end)
	span.SetTag("cache_key", key)

	if raw, ok, err := a.reports.Get(ctx, key); err != nil {
		a.logger.Warn("report cache read failed", "error", err, "key", key)
	} else if ok {
		var cached models.Report
		if err := json.Unmarshal(raw, &cached); err == nil {
			a.cacheHits.Add(1)
			span.SetTag("cache", "hit")
			return &cached, nil
		}
	}
	span.SetTag("cache", "miss")

	filtered, err := FilterByDate(ds.Orders, start, end)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	report, err := BuildReport(filtered, start, end, a.opts)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	if raw, err := json.Marshal(report); err == nil {
		if err := a.reports.Set(ctx, key, raw, a.reportTTL); err != nil {
			a.logger.Warn("report cache write failed", "error", err, "key", key)
		}
	}

	a.logger.Debug("report built",
		"orders", report.OrderCount,
		"customers", report.RFMSummary.Customers,
		"request_id", observability.GetRequestID(ctx),
	)
	return report, nil
}

func reportKey(ds *Dataset, start, end time.Time) string {
	bound := func(t time.Time) string {
		if t.IsZero() {
			return "open"
		}
		return t.Format(time.DateOnly)
	}
	return fmt.Sprintf("report:%s:%d:%d:%s:%s",
		cacheVersion, ds.RecordCount, ds.LastModified.UnixNano(), bound(start), bound(end))
}

// Snapshot management
func (a *Analytics) getCacheFilename(csvPath string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(csvPath)
	return filepath.Join(a.cacheDir, fmt.Sprintf("%s_%s.gob", name, cacheVersion))
}

func (a *Analytics) saveToCache(csvPath string) error {
	if a.cacheDir == "" {
		return nil
	}
	if err := os.MkdirAll(a.cacheDir, 0755); err != nil {
		return err
	}

	file, err := os.Create(a.getCacheFilename(csvPath))
	if err != nil {
		return err
	}
	defer file.Close()

	a.mu.RLock()
	defer a.mu.RUnlock()

	return gob.NewEncoder(file).Encode(a.dataset)
}

func (a *Analytics) loadFromCache(csvPath string) (*Dataset, error) {
	if a.cacheDir == "" {
		return nil, os.ErrNotExist
	}
	file, err := os.Open(a.getCacheFilename(csvPath))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var ds Dataset
	if err := gob.NewDecoder(file).Decode(&ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Utility method for monitoring
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	ds := a.dataset
	a.mu.RUnlock()

	stats := map[string]any{
		"record_count":   ds.RecordCount,
		"source":         ds.Source,
		"last_processed": ds.LastModified,
		"cache_hits":     a.cacheHits.Load(),
	}
	if first, last, ok := DateBounds(ds.Orders); ok {
		stats["first_order"] = first.Format(time.DateOnly)
		stats["last_order"] = last.Format(time.DateOnly)
	}
	return stats
}
