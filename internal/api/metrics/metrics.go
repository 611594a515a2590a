// Package metrics defines and registers all custom Prometheus metrics for the
// task-system API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at import time
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskhive"

// LoginsTotal counts login attempts by outcome ("ok" / "rejected").
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// TasksCreatedTotal counts newly created tasks by priority.
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by priority.",
	},
	[]string{"priority"},
)

// StatusTransitionsTotal counts applied task status transitions.
// Label:
//   - status: the new live status (e.g. "in_progress")
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of task status transitions applied.",
	},
	[]string{"status"},
)

// GroupsCreatedTotal counts newly created groups.
var GroupsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "groups_created_total",
		Help:      "Total number of groups created.",
	},
)

// ForbiddenTotal counts requests rejected by a permission check, labelled by
// the actor role that was denied. Useful for spotting misconfigured clients.
var ForbiddenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forbidden_total",
		Help:      "Total number of requests denied by role permission checks.",
	},
	[]string{"role"},
)
