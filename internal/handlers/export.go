package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandlers struct {
	reports
}

func NewExportHandlers(analytics *services.Analytics, logger *slog.Logger) *ExportHandlers {
	return &ExportHandlers{reports{analytics: analytics, logger: logger}}
}

func (h *ExportHandlers) HandleXLSX(w http.ResponseWriter, r *http.Request) {
	report, ok := h.load(w, r)
	if !ok {
		return
	}
	requestID := observability.GetRequestID(r.Context())

	f, err := export.Workbook(report)
	if err != nil {
		errors.WriteError(w, h.logger, errors.FromReport(err, "failed to build workbook"), requestID)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", attachment(report, "xlsx"))
	if err := f.Write(w); err != nil {
		h.logger.Error("write workbook", "error", err, "request_id", requestID)
	}
}

func (h *ExportHandlers) HandlePDF(w http.ResponseWriter, r *http.Request) {
	report, ok := h.load(w, r)
	if !ok {
		return
	}
	requestID := observability.GetRequestID(r.Context())

	buf, err := export.PDF(report)
	if err != nil {
		errors.WriteError(w, h.logger, errors.FromReport(err, "failed to render pdf"), requestID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment(report, "pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("write pdf", "error", err, "request_id", requestID)
	}
}

func attachment(report *models.Report, ext string) string {
	name := "sales-report"
	if !report.Start.IsZero() {
		name += "_" + report.Start.Format(dateLayout)
	}
	if !report.End.IsZero() {
		name += "_" + report.End.Format(dateLayout)
	}
	return fmt.Sprintf("attachment; filename=%q", name+"."+ext)
}
