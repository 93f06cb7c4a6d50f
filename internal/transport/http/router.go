package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	texthandler "consentd/internal/consenttext/handler"
	ledgerhandler "consentd/internal/ledger/handler"
	"consentd/internal/platform/metrics"
	"consentd/internal/platform/middleware"
	"consentd/internal/transport/http/shared"
)

// NewRouter wires all public endpoints behind the shared middleware chain.
// Handlers stay thin; business logic lives in the domain services.
func NewRouter(
	texts *texthandler.Handler,
	consents *ledgerhandler.Handler,
	logger *slog.Logger,
	m *metrics.Metrics,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(metrics.Latency(m))

	texts.Register(r)
	consents.Register(r)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
