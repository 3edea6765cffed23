// Package web expõe o servidor HTTP de health check e métricas.
package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SweepStatus informa quando a última varredura terminou
type SweepStatus interface {
	LastSweep() time.Time
}

// NewServer monta o servidor HTTP com /healthz e /metrics
func NewServer(port string, status SweepStatus, reg *prometheus.Registry) *http.Server {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		resp := map[string]any{
			"status": "ok",
		}
		if last := status.LastSweep(); !last.IsZero() {
			resp["last_sweep"] = last.UTC().Format(time.RFC3339)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
}
