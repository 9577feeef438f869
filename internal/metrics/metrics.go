// Package metrics holds the Prometheus collectors exported by the storefront.
// Everything is registered with the default registry at init through promauto
// and served by promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

const (
	OutcomeSuccess            = "success"
	OutcomeConflict           = "conflict"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeValidation         = "validation"
	OutcomeError              = "error"
)

const (
	GateAuthentication = "authentication"
	GateAuthorization  = "authorization"
)

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - outcome: success, conflict, invalid_credentials, validation or error
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"operation", "outcome"},
)

// GateRejectionsTotal counts requests stopped by the authentication or role gate.
// Labels:
//   - gate: "authentication" or "authorization"
//   - reason: missing, expired, invalid, no_identity or role
var GateRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_rejections_total",
		Help:      "Total number of requests rejected by an access gate.",
	},
	[]string{"gate", "reason"},
)

// AuditWritesTotal counts audit log writes.
// Label:
//   - result: "ok", "error" or "skipped"
var AuditWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_writes_total",
		Help:      "Total number of audit log writes, by result.",
	},
	[]string{"result"},
)

var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by method, route pattern and status code.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)
