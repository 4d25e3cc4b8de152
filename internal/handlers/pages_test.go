package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sales-dashboard/internal/services"
)

func TestPageHandlers_HandleDashboard(t *testing.T) {
	h := NewPageHandlers(createTestAnalytics(), testLogger(), "Sales")

	w := httptest.NewRecorder()
	h.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"<title>Sales</title>", "start: &#39;2022-06-01&#39;", "end: &#39;2023-03-01&#39;", `id="summary"`, "At Risk"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestPageHandlers_HandleDashboard_EmptyDataset(t *testing.T) {
	h := NewPageHandlers(services.NewAnalytics(services.WithLogger(testLogger())), testLogger(), "")

	w := httptest.NewRecorder()
	h.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No orders in the selected range") {
		t.Error("empty dataset should render an empty summary")
	}
}

func TestPageHandlers_UnknownPath(t *testing.T) {
	h := NewPageHandlers(createTestAnalytics(), testLogger(), "")

	w := httptest.NewRecorder()
	h.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
