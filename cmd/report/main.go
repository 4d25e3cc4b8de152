// Command report renders the dashboard's charts and exports for a date range
// into a directory, without starting the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/schollz/progressbar/v3"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/currency"
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

type options struct {
	file     string
	start    time.Time
	end      time.Time
	out      string
	currency string
	locale   string
	topN     int
	bins     int
	cacheDir string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLoggerTo(os.Stderr, cfg.Logger)

	opts, err := parseFlags(os.Args[1:], cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(context.Background(), opts, logger, os.Stdout, os.Stderr); err != nil {
		logger.Error("report failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, cfg *config.Config) (options, error) {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)

	opts := options{cacheDir: cfg.Data.CacheDir, topN: cfg.Report.TopN, bins: cfg.Report.HistogramBins}
	var start, end string
	fs.StringVar(&opts.file, "file", cfg.Data.CSVFile, "orders CSV file")
	fs.StringVar(&start, "start", "", "first day of the range (YYYY-MM-DD), default: first order")
	fs.StringVar(&end, "end", "", "last day of the range (YYYY-MM-DD), default: last order")
	fs.StringVar(&opts.out, "out", "report", "output directory")
	fs.StringVar(&opts.currency, "currency", cfg.Report.Currency, "ISO 4217 currency code")
	fs.StringVar(&opts.locale, "locale", cfg.Report.Locale, "BCP 47 locale for number formatting")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	var err error
	if start != "" {
		if opts.start, err = time.Parse(time.DateOnly, start); err != nil {
			return options{}, fmt.Errorf("-start: %w", err)
		}
	}
	if end != "" {
		if opts.end, err = time.Parse(time.DateOnly, end); err != nil {
			return options{}, fmt.Errorf("-end: %w", err)
		}
	}
	return opts, nil
}

func run(ctx context.Context, opts options, logger *slog.Logger, stdout, progress io.Writer) error {
	formatter, err := currency.New(opts.currency, opts.locale)
	if err != nil {
		return err
	}

	analytics := services.NewAnalytics(
		services.WithLogger(logger),
		services.WithCacheDir(opts.cacheDir),
		services.WithReportOptions(services.ReportOptions{TopN: opts.topN, Bins: opts.bins, Formatter: formatter}),
	)
	if err := analytics.LoadFromCSV(ctx, opts.file); err != nil {
		return err
	}

	report, err := analytics.Report(ctx, opts.start, opts.end)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(charts.Names)+2,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("rendering"),
		progressbar.OptionShowCount(),
	)

	for _, name := range charts.Names {
		bar.Describe(name)
		png, err := charts.Render(name, report)
		if err != nil {
			logger.Warn("chart skipped", "chart", name, "error", err)
		} else if err := os.WriteFile(filepath.Join(opts.out, name+".png"), png, 0o644); err != nil {
			return err
		}
		bar.Add(1)
	}

	bar.Describe("report.xlsx")
	if err := writeWorkbook(report, filepath.Join(opts.out, "report.xlsx")); err != nil {
		return err
	}
	bar.Add(1)

	bar.Describe("report.pdf")
	buf, err := export.PDF(report)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(opts.out, "report.pdf"), buf.Bytes(), 0o644); err != nil {
		return err
	}
	bar.Add(1)
	bar.Finish()
	fmt.Fprintln(progress)

	return printSummary(stdout, report)
}

func writeWorkbook(report *models.Report, path string) error {
	f, err := export.Workbook(report)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func printSummary(w io.Writer, report *models.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Orders\t%d\n", report.OrderCount)
	fmt.Fprintf(tw, "Total sales\t%s\n", report.TotalSalesLabel)
	fmt.Fprintf(tw, "Customers\t%d\n", report.RFMSummary.Customers)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Segment\tCustomers")
	for _, s := range report.SegmentCounts {
		fmt.Fprintf(tw, "%s\t%d\n", s.Label, s.Count)
	}
	return tw.Flush()
}
