package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const renderTimeout = 10 * time.Second

type PageHandlers struct {
	reports
	title string
}

func NewPageHandlers(analytics *services.Analytics, logger *slog.Logger, title string) *PageHandlers {
	return &PageHandlers{reports: reports{analytics: analytics, logger: logger}, title: title}
}

// HandleDashboard renders the page for the full dataset range. A report that
// cannot be built still renders the page with an empty summary.
func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	props := templates.DashboardProps{Title: h.title}
	if first, last, ok := h.analytics.DateBounds(); ok {
		props.Start = first.Format(dateLayout)
		props.End = last.Format(dateLayout)
	}

	report, err := h.analytics.Report(ctx, time.Time{}, time.Time{})
	if err != nil {
		h.logger.Warn("dashboard report unavailable", "error", err)
	}
	props.Report = report

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if err := templates.Dashboard(props).Render(ctx, w); err != nil {
		h.logger.Error("render dashboard", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}
