// Package metrics defines and registers all custom Prometheus metrics of the
// creatorhub daemon. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "creatorhub"

// ── Wallet metrics ────────────────────────────────────────────────────────────

// WalletTransitionsTotal counts wallet session phase transitions.
// Labels:
//   - from: the phase left (e.g. "idle")
//   - to: the phase entered (e.g. "connecting")
var WalletTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wallet_transitions_total",
		Help:      "Total number of wallet session phase transitions.",
	},
	[]string{"from", "to"},
)

// WalletConnectTotal counts connect and restore attempts by outcome.
// Label:
//   - result: "connected" or a failure reason (e.g. "user_rejected", "no_accounts")
var WalletConnectTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wallet_connect_total",
		Help:      "Total number of wallet connect attempts, by result.",
	},
	[]string{"result"},
)

// WalletNetworkSwitchTotal counts network switch requests.
// Labels:
//   - supported: "true" when the target chain is in the supported set
//   - result: "ok" or a failure reason
var WalletNetworkSwitchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wallet_network_switch_total",
		Help:      "Total number of wallet network switch requests.",
	},
	[]string{"supported", "result"},
)

// ProviderEventsQueueDepth tracks the number of provider events waiting for the dispatcher.
var ProviderEventsQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "provider_events_queue_depth",
		Help:      "Current number of provider events pending in the dispatcher channel.",
	},
)

// ProviderRequestDuration measures provider round-trips.
// Label:
//   - method: the JSON-RPC method (e.g. "eth_requestAccounts")
var ProviderRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_request_duration_seconds",
		Help:      "Duration of wallet provider requests.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"method"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthTransitionsTotal counts auth session phase transitions.
// Labels:
//   - from: the phase left
//   - to: the phase entered
var AuthTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_transitions_total",
		Help:      "Total number of auth session phase transitions.",
	},
	[]string{"from", "to"},
)

// APIRequestsTotal counts calls to the backend REST API.
// Labels:
//   - endpoint: the request path (e.g. "/auth/login")
//   - result: "ok", "unauthorized" or "error"
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of backend API requests, by endpoint and result.",
	},
	[]string{"endpoint", "result"},
)
