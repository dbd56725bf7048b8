// Package metrics defines and registers the custom Prometheus metrics for the
// users API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register themselves with the default registry at init
// time via promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "users_api"

// UsersCreatedTotal counts successfully registered users.
// Label:
//   - role: "ADMIN" or "USER"
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users successfully created, by role.",
	},
	[]string{"role"},
)

// UsersDeletedTotal counts hard-deleted users.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of users deleted.",
	},
)

// PolicyDenialsTotal counts requests rejected by the authorization policy.
// Label:
//   - action: "READ", "UPDATE" or "DELETE"
var PolicyDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_denials_total",
		Help:      "Total number of requests denied by the authorization policy, by action.",
	},
	[]string{"action"},
)

// CacheLookupsTotal counts user cache lookups.
// Label:
//   - result: "hit" or "miss"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of user cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
