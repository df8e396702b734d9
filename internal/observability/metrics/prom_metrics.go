package metrics

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	StoreReasonDeadlineExceeded     = "deadline_exceeded"
	StoreReasonUniqueViolation      = "unique_violation"
	StoreReasonSerializationFailure = "serialization_failure"
	StoreReasonConnection           = "connection"
	StoreReasonUnknown              = "unknown"
)

// PromMetrics holds the Prometheus collectors scraped from /metrics.
type PromMetrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	storeErrors *prometheus.CounterVec
}

func NewPromMetrics(registerer prometheus.Registerer, cfg Config) *PromMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "clans"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "clans_http_requests_total",
		Help:        "HTTP requests by method, route and status.",
		ConstLabels: constLabels,
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "clans_http_request_duration_seconds",
		Help:        "HTTP request latency by method and route.",
		Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		ConstLabels: constLabels,
	}, []string{"method", "route"})
	storeErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "clans_store_errors_total",
		Help:        "Storage errors by operation and low-cardinality reason.",
		ConstLabels: constLabels,
	}, []string{"operation", "reason"})

	registerer.MustRegister(requests, duration, storeErrors)

	return &PromMetrics{
		requests:    requests,
		duration:    duration,
		storeErrors: storeErrors,
	}
}

func (m *PromMetrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if strings.TrimSpace(route) == "" {
		route = "unknown"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncStoreError counts a storage failure under a classified reason.
func (m *PromMetrics) IncStoreError(operation string, err error) {
	if m == nil || err == nil {
		return
	}
	m.storeErrors.WithLabelValues(operation, ClassifyStoreReason(err)).Inc()
}

// GinMiddleware records request counts and latency per matched route.
func GinMiddleware(m *PromMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// ClassifyStoreReason maps storage errors to low-cardinality reasons.
func ClassifyStoreReason(err error) string {
	switch {
	case err == nil:
		return StoreReasonUnknown
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return StoreReasonDeadlineExceeded
	case errors.Is(err, gorm.ErrDuplicatedKey), hasPGCode(err, "23505"):
		return StoreReasonUniqueViolation
	case hasPGCode(err, "40001"):
		return StoreReasonSerializationFailure
	case hasPGClass(err, "08"):
		return StoreReasonConnection
	default:
		return StoreReasonUnknown
	}
}

func hasPGCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

func hasPGClass(err error, class string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, class)
	}
	return false
}
