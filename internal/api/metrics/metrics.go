// Package metrics defines and registers the custom Prometheus metrics of the
// procurement API. It is the single source of truth for metric names, labels
// and help strings.
//
// All metrics are registered with the default Prometheus registry on import
// through promauto and exposed on /metrics next to the echoprometheus HTTP
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "procurement"

// ── Authentication metrics ────────────────────────────────────────────────────

// AuthFailuresTotal counts requests rejected by the authentication middleware.
// Label:
//   - code: taxonomy code of the rejection (e.g. "TOKEN_EXPIRED")
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected during authentication, by error code.",
	},
	[]string{"code"},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts signed session tokens.
// Label:
//   - reason: "login", "register" or "refresh"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of session tokens issued, by reason.",
	},
	[]string{"reason"},
)

// SecretRotationsTotal counts signing secret rotations applied by this process.
// Label:
//   - origin: "local" when rotated through the API, "remote" when received
//     from another instance
var SecretRotationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "secret_rotations_total",
		Help:      "Total number of signing secret rotations applied.",
	},
	[]string{"origin"},
)

// ── Error metrics ─────────────────────────────────────────────────────────────

// ErrorResponsesTotal counts error responses written by the error normalizer.
// Labels:
//   - code: taxonomy code
//   - status: HTTP status code
var ErrorResponsesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "error_responses_total",
		Help:      "Total number of normalized error responses, by code and status.",
	},
	[]string{"code", "status"},
)

// ── Password hashing metrics ──────────────────────────────────────────────────

// PasswordHashDuration measures bcrypt work on the hash pool.
// Label:
//   - op: "hash" or "compare"
var PasswordHashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of bcrypt operations executed by the hash pool.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"op"},
)

// HashQueueDepth tracks jobs waiting for a free hash worker.
var HashQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hash_queue_depth",
		Help:      "Current number of password hashing jobs waiting for a worker.",
	},
)
