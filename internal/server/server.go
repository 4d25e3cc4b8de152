package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/services"
)

const defaultTitle = "Sales Dashboard"

type Server struct {
	analytics      *services.Analytics
	mux            *http.ServeMux
	logger         *slog.Logger
	pageHandlers   *handlers.PageHandlers
	apiHandlers    *handlers.APIHandlers
	chartHandlers  *handlers.ChartHandlers
	exportHandlers *handlers.ExportHandlers
	sseHandlers    *handlers.SSEHandlers
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, title string) *Server {
	if title == "" {
		title = defaultTitle
	}
	s := &Server{
		analytics:      analytics,
		mux:            http.NewServeMux(),
		logger:         logger,
		pageHandlers:   handlers.NewPageHandlers(analytics, logger, title),
		apiHandlers:    handlers.NewAPIHandlers(analytics, logger),
		chartHandlers:  handlers.NewChartHandlers(analytics, logger),
		exportHandlers: handlers.NewExportHandlers(analytics, logger),
		sseHandlers:    handlers.NewSSEHandlers(analytics, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Dashboard routes
	s.mux.HandleFunc("GET /", s.pageHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints, all accepting ?start=YYYY-MM-DD&end=YYYY-MM-DD
	s.mux.HandleFunc("GET /api/summary", s.apiHandlers.HandleSummary)
	s.mux.HandleFunc("GET /api/daily-sales", s.apiHandlers.HandleDailySales)
	s.mux.HandleFunc("GET /api/monthly-sales", s.apiHandlers.HandleMonthlySales)
	s.mux.HandleFunc("GET /api/top-products", s.apiHandlers.HandleTopProducts)
	s.mux.HandleFunc("GET /api/bottom-products", s.apiHandlers.HandleBottomProducts)
	s.mux.HandleFunc("GET /api/demographics", s.apiHandlers.HandleDemographics)
	s.mux.HandleFunc("GET /api/rfm", s.apiHandlers.HandleRFM)
	s.mux.HandleFunc("GET /api/segments", s.apiHandlers.HandleSegments)
	s.mux.HandleFunc("GET /api/choropleth", s.apiHandlers.HandleChoropleth)
	s.mux.HandleFunc("GET /api/report", s.apiHandlers.HandleReport)

	// Rendered figures and downloads
	s.mux.HandleFunc("GET /charts/{file}", s.chartHandlers.HandleChart)
	s.mux.HandleFunc("GET /export/report.xlsx", s.exportHandlers.HandleXLSX)
	s.mux.HandleFunc("GET /export/report.pdf", s.exportHandlers.HandlePDF)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/refresh", s.sseHandlers.HandleRefresh)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
