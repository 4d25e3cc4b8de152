package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServer() *Server {
	a := services.NewAnalytics(services.WithLogger(testLogger()), services.WithCacheDir(""))
	a.SetData([]models.Order{
		{OrderID: "1", CustomerID: "C1", OrderDate: time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC), TotalPrice: 600, ProductName: "Laptop", Quantity: 1, Age: 30, Gender: "Female", State: "Victoria", City: "Melbourne"},
		{OrderID: "2", CustomerID: "C2", OrderDate: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), TotalPrice: 120, ProductName: "Mouse", Quantity: 3, Age: 44, Gender: "Male", State: "Queensland", City: "Brisbane"},
	})
	return NewServer(a, testLogger(), "")
}

func TestServer_Routes(t *testing.T) {
	srv := testServer()

	tests := []struct {
		path        string
		status      int
		contentType string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
		{"/api/summary", http.StatusOK, "application/json"},
		{"/api/daily-sales", http.StatusOK, "application/json"},
		{"/api/monthly-sales", http.StatusOK, "application/json"},
		{"/api/top-products", http.StatusOK, "application/json"},
		{"/api/bottom-products", http.StatusOK, "application/json"},
		{"/api/demographics", http.StatusOK, "application/json"},
		{"/api/rfm", http.StatusOK, "application/json"},
		{"/api/segments", http.StatusOK, "application/json"},
		{"/api/choropleth", http.StatusOK, "application/json"},
		{"/api/report", http.StatusOK, "application/json"},
		{"/charts/segments.png", http.StatusOK, "image/png"},
		{"/export/report.xlsx", http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"/export/report.pdf", http.StatusOK, "application/pdf"},
		{"/sse/refresh", http.StatusOK, "text/event-stream"},
		{"/missing", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.contentType != "" && !strings.HasPrefix(w.Header().Get("Content-Type"), tt.contentType) {
				t.Errorf("content-type = %q, want %q", w.Header().Get("Content-Type"), tt.contentType)
			}
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	testServer().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/summary", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func testConfig() *config.Config {
	return &config.Config{Server: config.ServerConfig{ShutdownTimeout: 2 * time.Second}}
}

func TestGracefulServer_ShutdownRunsHooksInReverse(t *testing.T) {
	httpServer := &http.Server{Handler: http.NotFoundHandler()}
	gs := NewGracefulServer(httpServer, testLogger(), testConfig())

	var order []string
	gs.RegisterShutdownHook("database", func(ctx context.Context) error {
		order = append(order, "database")
		return nil
	})
	gs.RegisterShutdownHook("cache", func(ctx context.Context) error {
		order = append(order, "cache")
		return nil
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("server not serving: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	if strings.Join(order, ",") != "cache,database" {
		t.Errorf("hook order = %v, want cache then database", order)
	}
}

func TestGracefulServer_HookErrorsAreJoined(t *testing.T) {
	gs := NewGracefulServer(&http.Server{}, testLogger(), testConfig())

	errA := errors.New("a failed")
	errB := errors.New("b failed")
	gs.RegisterShutdownHook("a", func(ctx context.Context) error { return errA })
	gs.RegisterShutdownHook("b", func(ctx context.Context) error { return errB })

	err := gs.shutdown(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("shutdown() error = %v, want both hook errors", err)
	}
}
