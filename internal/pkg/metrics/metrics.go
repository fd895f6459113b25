package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// BackendConnectivityStatus records whether the last VOC status fetch worked.
	// 1 = Reachable, 0 = Unreachable
	BackendConnectivityStatus = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vocbridge_backend_connectivity_status",
			Help: "The connectivity status to the VOC backend (1=Reachable, 0=Unreachable).",
		},
	)

	// CommandsTotal counts remote commands by terminal result.
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocbridge_commands_total",
			Help: "Total number of remote commands issued to the vehicle.",
		},
		[]string{"command", "result"}, // result: success/rejected/error
	)

	// CommandLatency covers the whole issue-and-poll protocol.
	CommandLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vocbridge_command_latency_seconds",
			Help:    "Time from issuing a remote command until it resolves.",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 30, 60, 120, 300},
		},
		[]string{"command"},
	)

	// CommandPolls counts call-state re-fetches of queued commands.
	CommandPolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocbridge_command_polls_total",
			Help: "Total number of call state polls for queued commands.",
		},
		[]string{"command"},
	)

	// RefreshesTotal counts state cache refreshes.
	RefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocbridge_refreshes_total",
			Help: "Total number of vehicle state refreshes.",
		},
		[]string{"result"}, // result: success/failed
	)
)

// Result label values.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
	ResultFailed   = "failed"
)

func init() {
	prometheus.MustRegister(BackendConnectivityStatus)
	prometheus.MustRegister(CommandsTotal)
	prometheus.MustRegister(CommandLatency)
	prometheus.MustRegister(CommandPolls)
	prometheus.MustRegister(RefreshesTotal)
}
