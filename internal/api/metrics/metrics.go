// Package metrics defines the custom Prometheus metrics of the library
// records API. HTTP request metrics come from the echoprometheus middleware;
// the collectors here count domain outcomes.
//
// All collectors register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// Borrow outcomes.
const (
	ResultSuccess  = "success"
	ResultReplayed = "replayed"
	ResultNotFound = "not_found"
	ResultNoCopies = "no_copies"
	ResultInvalid  = "invalid"
	ResultFailure  = "failure"
	ResultError    = "error"
)

// ── Borrow metrics ────────────────────────────────────────────────────────────

// BorrowsTotal counts borrow requests.
// Label:
//   - result: success, replayed, not_found, no_copies, invalid or error
var BorrowsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "borrows_total",
		Help:      "Total number of borrow requests, by result.",
	},
	[]string{"result"},
)

// BorrowDuration measures the borrow workflow from bind to response.
var BorrowDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "borrow_duration_seconds",
		Help:      "Duration of the borrow workflow.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: success, failure (bad credentials) or error
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts accounts created through POST /auth/.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of member registrations.",
	},
)

// ── Catalogue metrics ─────────────────────────────────────────────────────────

// CatalogMutationsTotal counts create, update and delete operations.
// Labels:
//   - entity: book or member
//   - op: create, update or delete
var CatalogMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_mutations_total",
		Help:      "Total number of successful book and member mutations.",
	},
	[]string{"entity", "op"},
)
