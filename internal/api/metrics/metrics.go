// Package metrics defines and registers all custom Prometheus metrics for the
// blog API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/quillpress/blog-api/internal/core/authz"
)

const namespace = "blog"

// Gate label values.
const (
	GateRole      = "role"
	GateOwnership = "ownership"
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthzDecisionsTotal counts gate outcomes.
// Labels:
//   - gate: "role" or "ownership"
//   - decision: "allow" or "deny"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization gate decisions, by gate and outcome.",
	},
	[]string{"gate", "decision"},
)

// AuthFailuresTotal counts requests that fell back to the anonymous principal.
// Label:
//   - reason: why identity resolution failed (e.g. "invalid_token", "unknown_subject")
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of bearer tokens that could not be resolved to a user.",
	},
	[]string{"reason"},
)

// ── Content metrics ───────────────────────────────────────────────────────────

var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
)

var PostsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_deleted_total",
		Help:      "Total number of successful post delete requests.",
	},
)

// UsersRegisteredTotal counts new accounts.
// Label:
//   - role: "admin", "editor" or "viewer"
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of registered users, by role.",
	},
	[]string{"role"},
)

// ObserveDecision records one gate outcome.
func ObserveDecision(gate string, d authz.Decision) {
	AuthzDecisionsTotal.WithLabelValues(gate, d.String()).Inc()
}
