package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/multillm/survey-stack/common/middleware"
	"github.com/multillm/survey-stack/submissions/internal/handlers"
)

// NewRouter constructs a ServeMux with the submission API routes registered.
func NewRouter(h *handlers.SubmissionsHandler, cors middleware.CORSConfig) http.Handler {
	mux := http.NewServeMux()

	// Survey API
	mux.HandleFunc("/api/submit", h.Submit)
	mux.HandleFunc("/api/submissions", h.List)
	mux.HandleFunc("/api/ping", h.Ping)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(middleware.CORS(cors)(middleware.Recover(mux)))
}
