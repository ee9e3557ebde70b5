// Package metrics defines the custom Prometheus metrics of the parts
// inventory API. HTTP request metrics come from echoprometheus; the vectors
// here describe authentication and throttling outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "inventory"

// AuthRejectionsTotal counts rejected requests.
// Label:
//   - kind: rejection kind (e.g. "expired", "user_inactive", "forbidden")
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "rejections_total",
		Help:      "Total number of requests rejected by authentication or authorization, by kind.",
	},
	[]string{"kind"},
)

// AuthSuccessTotal counts requests that produced a Principal.
// Label:
//   - role: the principal's role
var AuthSuccessTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "success_total",
		Help:      "Total number of successfully authenticated requests, by role.",
	},
	[]string{"role"},
)

// AuthInternalErrorsTotal counts pipeline runs that failed for operational
// reasons (store unreachable) rather than a rejection.
var AuthInternalErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "internal_errors_total",
		Help:      "Total number of authentication attempts that failed with an internal error.",
	},
)

// AuthDuration measures the authentication pipeline end to end.
// Label:
//   - outcome: "success", "rejected" or "error"
var AuthDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "pipeline_duration_seconds",
		Help:      "Duration of the authentication pipeline, including the user lookup.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// RateLimitedTotal counts requests denied by the rate guard.
// Label:
//   - family: endpoint family ("login", "refresh")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests denied by the rate guard, by endpoint family.",
	},
	[]string{"family"},
)

// RateGuardErrorsTotal counts rate guard backend failures (requests admitted).
var RateGuardErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_guard_errors_total",
		Help:      "Total number of rate guard backend failures; the request is admitted.",
	},
	[]string{"family"},
)
