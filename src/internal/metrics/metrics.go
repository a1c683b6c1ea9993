// Package metrics holds the Prometheus collectors of the payment engine.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

var (
	Authorizations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_authorizations_total",
		Help: "Authorization attempts, labeled by result",
	}, []string{"result"})

	Captures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_captures_total",
		Help: "Capture attempts, labeled by result",
	}, []string{"result"})

	Settlements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_settlements_total",
		Help: "Transaction settle attempts, labeled by result",
	}, []string{"result"})

	SettlementBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_settlement_batches_total",
		Help: "Settlement batches by final status",
	}, []string{"status"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payments_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)

// Result turns an operation error into a low-cardinality label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrFraudFlagged):
		return "fraud_flagged"
	case errors.Is(err, domain.ErrCardExpired):
		return "card_expired"
	case errors.Is(err, domain.ErrCardInactive):
		return "card_inactive"
	case errors.Is(err, domain.ErrMerchantInactive):
		return "merchant_inactive"
	case errors.Is(err, domain.ErrAccountInactive):
		return "account_inactive"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrRecordNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// Instrument records request count and latency per chi route pattern.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				endpoint = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpRequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
	})
}
