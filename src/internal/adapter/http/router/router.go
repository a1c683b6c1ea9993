package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/api-sage/card-payment-engine/src/internal/metrics"
)

const APIPrefix = "/api/v1"

// RouteRegistrar mounts a controller's routes on the authenticated API
// subrouter.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// New builds the HTTP surface. Health, metrics, docs and the peer network
// endpoint are public; everything under APIPrefix goes through
// authMiddleware when it is set.
func New(authMiddleware func(http.Handler) http.Handler, networkReceiver http.Handler, controllers ...RouteRegistrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Instrument)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", health)
	r.Handle("/metrics", promhttp.Handler())
	registerSwaggerRoutes(r)

	if networkReceiver != nil {
		r.Method(http.MethodPost, "/network/messages", networkReceiver)
	}

	r.Route(APIPrefix, func(api chi.Router) {
		if authMiddleware != nil {
			api.Use(authMiddleware)
		}
		for _, c := range controllers {
			if c != nil {
				c.RegisterRoutes(api)
			}
		}
	})

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
