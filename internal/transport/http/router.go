package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"verigate/internal/platform/health"
	"verigate/internal/platform/metrics"
	"verigate/internal/verification/handler"
	request "verigate/pkg/platform/middleware/request"
)

const (
	requestTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20 // 1 MiB; decision payloads are small JSON documents
)

// NewRouter wires all public endpoints with middleware.
//
// The webhook route lives outside the JSON content-type group: its body must
// reach the handler as raw, unmodified bytes regardless of how the provider
// labels the payload, because signature verification is byte-exact.
func NewRouter(h *handler.Handler, healthHandler *health.Handler, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(logger))
	r.Use(request.Timeout(requestTimeout))
	r.Use(request.BodyLimit(maxBodyBytes))
	if m != nil {
		r.Use(request.Latency(m))
	}

	h.RegisterWebhooks(r)

	r.Group(func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		h.Register(r)
	})

	healthHandler.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
