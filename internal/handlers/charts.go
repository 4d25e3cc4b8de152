package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

type ChartHandlers struct {
	reports
}

func NewChartHandlers(analytics *services.Analytics, logger *slog.Logger) *ChartHandlers {
	return &ChartHandlers{reports{analytics: analytics, logger: logger}}
}

// HandleChart serves GET /charts/{file} where file is "<name>.png".
func (h *ChartHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	name, ok := strings.CutSuffix(r.PathValue("file"), ".png")
	if !ok {
		errors.WriteError(w, h.logger, errors.NotFound("charts are served as .png"), requestID)
		return
	}

	report, ok := h.load(w, r)
	if !ok {
		return
	}

	png, err := charts.Render(name, report)
	if err != nil {
		errors.WriteError(w, h.logger, errors.FromReport(err, "failed to render chart "+name), requestID)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", cacheMaxAge)
	if _, err := w.Write(png); err != nil {
		h.logger.Warn("write chart", "chart", name, "error", err, "request_id", requestID)
	}
}
