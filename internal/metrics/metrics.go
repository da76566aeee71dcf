// Package metrics - счётчики Prometheus сервиса. Отдаются на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
)

const namespace = "extrasite"

// Результаты для метки result.
const (
	ResultOK    = "ok"
	ResultError = "error"

	ResultNotFound         = "not_found"
	ResultForbidden        = "forbidden"
	ResultInvalidState     = "invalid_state"
	ResultCapacityExceeded = "capacity_exceeded"
)

var (
	ApplicationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "application_transitions_total",
			Help:      "Application lifecycle operations by outcome",
		},
		[]string{"operation", "result"},
	)

	ConflictCancellations = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conflict_cancellations_total",
			Help:      "Pending applications cancelled because of a schedule overlap",
		},
	)

	RatingsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratings_recorded_total",
			Help:      "Ratings recorded by rater role",
		},
		[]string{"rater_role"},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_total",
			Help:      "Notification emails by template and outcome",
		},
		[]string{"template", "result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Result переводит ошибку в значение метки result.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// TransitionResult различает отказы бизнес-правил, чтобы они не смешивались с ошибками базы.
func TransitionResult(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case apperror.IsNotFound(err):
		return ResultNotFound
	case apperror.IsForbidden(err):
		return ResultForbidden
	case apperror.IsCapacityExceeded(err):
		return ResultCapacityExceeded
	case apperror.IsInvalidState(err):
		return ResultInvalidState
	default:
		return ResultError
	}
}

// ObserveTransition учитывает операцию над candidatura.
func ObserveTransition(operation string, err error) {
	ApplicationTransitions.WithLabelValues(operation, TransitionResult(err)).Inc()
}
