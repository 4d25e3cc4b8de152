package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

const version = "1.0.0"

type APIHandlers struct {
	reports
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{reports{analytics: analytics, logger: logger}}
}

// serve builds the report for the request's range and writes the part of it
// selected by view.
func (h *APIHandlers) serve(view func(*models.Report) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, ok := h.load(w, r)
		if !ok {
			return
		}
		errors.WriteSuccessWithHeaders(w, view(report), map[string]string{
			"Cache-Control": cacheMaxAge,
		})
	}
}

type summaryView struct {
	Start             string                `json:"start,omitempty"`
	End               string                `json:"end,omitempty"`
	OrderCount        int                   `json:"order_count"`
	TotalSales        float64               `json:"total_sales"`
	TotalSalesLabel   string                `json:"total_sales_label"`
	TotalPayment      float64               `json:"total_payment"`
	TotalPaymentLabel string                `json:"total_payment_label"`
	RFM               models.RFMSummary     `json:"rfm"`
	Segments          []models.SegmentCount `json:"segments"`
}

func newSummaryView(r *models.Report) summaryView {
	v := summaryView{
		OrderCount:        r.OrderCount,
		TotalSales:        r.TotalSales,
		TotalSalesLabel:   r.TotalSalesLabel,
		TotalPayment:      r.TotalPayment,
		TotalPaymentLabel: r.TotalPaymentLabel,
		RFM:               r.RFMSummary,
		Segments:          r.SegmentCounts,
	}
	if !r.Start.IsZero() {
		v.Start = r.Start.Format(dateLayout)
	}
	if !r.End.IsZero() {
		v.End = r.End.Format(dateLayout)
	}
	return v
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	h.serve(func(rep *models.Report) any { return newSummaryView(rep) })(w, r)
}

func (h *APIHandlers) HandleDailySales(w http.ResponseWriter, r *http.Request) {
	h.serve(func(rep *models.Report) any { return rep.DailySales })(w, r)
}

func (h *APIHandlers) HandleMonthlySales(w http.ResponseWriter, r *http.Request) {
	h.serve(func(rep *models.Report) any { return rep.MonthlySales })(w, r)
}

func (h *APIHandlers) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	h.serve(func(rep *models.Report) any { return rep.TopProducts })(w, r)
}

func (h *APIHandlers) HandleBottomProducts(w http.ResponseWriter, r *http.Request) {
	h.serve(func(rep *models.Report) any { return rep.BottomProducts })(w, r)
}

func (h *APIHandlers) HandleDemographics(w http.ResponseWriter, r *http.Request) {
	h.serve(func(rep *models.Report) any { return rep.Demographics })(w, r)
}

func (h *APIHandlers) HandleRFM(w http.ResponseWriter, r *http.Request) {
	h.serve(func(rep *models.Report) any {
		return map[string]any{
			"customers":    rep.RFM,
			"summary":      rep.RFMSummary,
			"distribution": rep.RFMDistribution,
		}
	})(w, r)
}

func (h *APIHandlers) HandleSegments(w http.ResponseWriter, r *http.Request) {
	h.serve(func(rep *models.Report) any {
		return map[string]any{
			"counts":      rep.SegmentCounts,
			"assignments": rep.Segments,
		}
	})(w, r)
}

func (h *APIHandlers) HandleChoropleth(w http.ResponseWriter, r *http.Request) {
	h.serve(func(rep *models.Report) any { return rep.Choropleth })(w, r)
}

func (h *APIHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	h.serve(func(rep *models.Report) any { return rep })(w, r)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
