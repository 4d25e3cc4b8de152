package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	reports
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{reports{analytics: analytics, logger: logger}}
}

// readRange prefers the Datastar signals and falls back to the query string
// for plain EventSource clients.
func readRange(r *http.Request) (DateRange, error) {
	var dr DateRange
	if r.URL.Query().Has(datastar.DatastarKey) {
		if err := datastar.ReadSignals(r, &dr); err != nil {
			return DateRange{}, errors.BadRequestWrap(err, "malformed datastar signals")
		}
		return dr, nil
	}
	return rangeFromQuery(r), nil
}

func renderComponent(ctx context.Context, c templ.Component) (string, error) {
	var buf strings.Builder
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// HandleRefresh recomputes the report for the signalled range, patches the
// summary block and pushes the headline figures as signals.
func (h *SSEHandlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	dr, err := readRange(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	sse := datastar.NewSSE(w, r)

	report, err := h.forRange(r, dr)
	if err != nil {
		h.patchNotice(r.Context(), sse, err, requestID)
		return
	}

	html, err := renderComponent(r.Context(), templates.Summary(report))
	if err != nil {
		h.logger.Error("render summary", "error", err, "request_id", requestID)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		h.logger.Warn("patch summary", "error", err, "request_id", requestID)
		return
	}

	signals, err := json.Marshal(signalsFor(report))
	if err != nil {
		h.logger.Error("marshal signals", "error", err, "request_id", requestID)
		return
	}
	if err := sse.PatchSignals(signals); err != nil {
		h.logger.Warn("patch signals", "error", err, "request_id", requestID)
	}
}

func signalsFor(r *models.Report) map[string]any {
	return map[string]any{
		"orderCount": r.OrderCount,
		"totalSales": r.TotalSalesLabel,
		"customers":  r.RFMSummary.Customers,
	}
}

// patchNotice replaces the summary with an explanation of why it could not
// be built. An empty range renders the empty summary instead of an error.
func (h *SSEHandlers) patchNotice(ctx context.Context, sse *datastar.ServerSentEventGenerator, err error, requestID string) {
	h.logger.Warn("refresh failed", "error", err, "request_id", requestID)

	notice := templates.Notice("Something went wrong building the report.")
	switch appErr := errors.FromReport(err, ""); {
	case appErr.Code == errors.CodeEmptyDataset:
		notice = templates.Summary(nil)
	case appErr.StatusCode < http.StatusInternalServerError:
		notice = templates.Notice(appErr.Message)
	}

	html, renderErr := renderComponent(ctx, notice)
	if renderErr != nil {
		h.logger.Error("render notice", "error", renderErr, "request_id", requestID)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		h.logger.Warn("patch notice", "error", err, "request_id", requestID)
	}
}
