// Package export writes reports to spreadsheet and PDF documents.
package export

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
)

var ErrNilReport = errors.New("export: nil report")

// Sheet names, in workbook order.
const (
	SheetSummary  = "Summary"
	SheetDaily    = "Daily Sales"
	SheetProducts = "Products"
	SheetStates   = "States"
	SheetCities   = "Cities"
	SheetRFM      = "RFM"
	SheetSegments = "Segments"
)

type sheetWriter struct {
	f      *excelize.File
	header int
}

func (w *sheetWriter) table(sheet string, headers []string, widths []float64, rows [][]any) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := w.f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := w.f.SetCellStyle(sheet, cell, cell, w.header); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := w.f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("%s!%s: %w", sheet, cell, err)
			}
		}
	}

	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := w.f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

// Workbook lays the report out over one sheet per section. The caller owns
// the returned file and must Close it.
func Workbook(report *models.Report) (*excelize.File, error) {
	if report == nil {
		return nil, ErrNilReport
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetDaily, SheetProducts, SheetStates, SheetCities, SheetRFM, SheetSegments} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	w := &sheetWriter{f: f, header: header}
	for _, fill := range []func(*sheetWriter, *models.Report) error{
		summarySheet, dailySheet, productSheet, stateSheet, citySheet, rfmSheet, segmentSheet,
	} {
		if err := fill(w, report); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func summarySheet(w *sheetWriter, r *models.Report) error {
	rows := [][]any{
		{"Start", formatDay(r.Start)},
		{"End", formatDay(r.End)},
		{"Orders", r.OrderCount},
		{"Total sales", r.TotalSales},
		{"Total sales (formatted)", r.TotalSalesLabel},
		{"Total payment", r.TotalPayment},
		{"Total payment (formatted)", r.TotalPaymentLabel},
		{"Customers", r.RFMSummary.Customers},
		{"Average recency (days)", r.RFMSummary.AvgRecency},
		{"Average frequency", r.RFMSummary.AvgFrequency},
		{"Average monetary", r.RFMSummary.AvgMonetary},
		{"Generated at", r.GeneratedAt.Format("2006-01-02 15:04:05")},
	}
	return w.table(SheetSummary, []string{"Metric", "Value"}, []float64{28, 24}, rows)
}

func dailySheet(w *sheetWriter, r *models.Report) error {
	rows := make([][]any, 0, len(r.DailySales))
	for _, d := range r.DailySales {
		rows = append(rows, []any{d.Date, d.Sales})
	}
	return w.table(SheetDaily, []string{"Date", "Sales"}, []float64{14, 16}, rows)
}

func productSheet(w *sheetWriter, r *models.Report) error {
	rows := make([][]any, 0, len(r.TopProducts)+len(r.BottomProducts))
	for _, p := range r.TopProducts {
		rows = append(rows, []any{"top", p.ProductName, p.Quantity, p.TotalPrice})
	}
	for _, p := range r.BottomProducts {
		rows = append(rows, []any{"bottom", p.ProductName, p.Quantity, p.TotalPrice})
	}
	return w.table(SheetProducts, []string{"Rank", "Product", "Quantity", "Total price"}, []float64{10, 32, 12, 16}, rows)
}

func stateSheet(w *sheetWriter, r *models.Report) error {
	shade := make(map[string]models.RegionShade, len(r.Choropleth))
	for _, s := range r.Choropleth {
		shade[s.Region] = s
	}
	rows := make([][]any, 0, len(r.Demographics.SalesByState))
	for _, s := range r.Demographics.SalesByState {
		rows = append(rows, []any{s.Key, s.Sales, shade[s.Key].Intensity})
	}
	return w.table(SheetStates, []string{"State", "Sales", "Intensity"}, []float64{30, 16, 12}, rows)
}

func citySheet(w *sheetWriter, r *models.Report) error {
	rows := make([][]any, 0, len(r.Demographics.TopCities))
	for _, c := range r.Demographics.TopCities {
		rows = append(rows, []any{c.City, c.Quantity, c.TotalPrice})
	}
	return w.table(SheetCities, []string{"City", "Quantity", "Total price"}, []float64{24, 12, 16}, rows)
}

func rfmSheet(w *sheetWriter, r *models.Report) error {
	segments := make(map[string]models.Segment, len(r.Segments))
	for _, s := range r.Segments {
		segments[s.CustomerID] = s.Segment
	}
	rows := make([][]any, 0, len(r.RFM))
	for _, c := range r.RFM {
		rows = append(rows, []any{c.CustomerID, c.Recency, c.Frequency, c.Monetary, segments[c.CustomerID].Label()})
	}
	return w.table(SheetRFM, []string{"Customer", "Recency", "Frequency", "Monetary", "Segment"}, []float64{20, 10, 10, 14, 20}, rows)
}

func segmentSheet(w *sheetWriter, r *models.Report) error {
	rows := make([][]any, 0, len(r.SegmentCounts))
	for _, s := range r.SegmentCounts {
		rows = append(rows, []any{s.Label, s.Count})
	}
	return w.table(SheetSegments, []string{"Segment", "Customers"}, []float64{22, 12}, rows)
}
