package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const (
	dateLayout  = time.DateOnly
	cacheMaxAge = "public, max-age=300"
)

// DateRange is the start/end pair carried by every report request. Empty
// strings mean open bounds.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func rangeFromQuery(r *http.Request) DateRange {
	q := r.URL.Query()
	return DateRange{Start: q.Get("start"), End: q.Get("end")}
}

// Parse validates both bounds as YYYY-MM-DD.
func (d DateRange) Parse() (start, end time.Time, err error) {
	if d.Start != "" {
		if start, err = time.Parse(dateLayout, d.Start); err != nil {
			return time.Time{}, time.Time{}, errors.ValidationWrap(err, "start must be a YYYY-MM-DD date")
		}
	}
	if d.End != "" {
		if end, err = time.Parse(dateLayout, d.End); err != nil {
			return time.Time{}, time.Time{}, errors.ValidationWrap(err, "end must be a YYYY-MM-DD date")
		}
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return time.Time{}, time.Time{}, errors.Validation("start must not be after end")
	}
	return start, end, nil
}

// reports resolves a request's date range to a report. It is shared by the
// JSON, chart, export and SSE handlers.
type reports struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func (rs reports) forRange(r *http.Request, dr DateRange) (*models.Report, error) {
	start, end, err := dr.Parse()
	if err != nil {
		return nil, err
	}
	report, err := rs.analytics.Report(r.Context(), start, end)
	if err != nil {
		return nil, errors.FromReport(err, "failed to build report")
	}
	return report, nil
}

// load writes the error response itself and reports false when the report
// could not be built.
func (rs reports) load(w http.ResponseWriter, r *http.Request) (*models.Report, bool) {
	report, err := rs.forRange(r, rangeFromQuery(r))
	if err != nil {
		errors.WriteError(w, rs.logger, err, observability.GetRequestID(r.Context()))
		return nil, false
	}
	return report, true
}
