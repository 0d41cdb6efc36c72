package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the scoreboard.
type Service struct {
	SnapshotsApplied      prometheus.Counter
	SnapshotsStale        prometheus.Counter
	CheckoutCacheHits     prometheus.Counter
	CheckoutCacheMisses   prometheus.Counter
	CheckoutFetchFailures prometheus.Counter
	TransformDuration     prometheus.Histogram
	NotifSent             prometheus.Counter
	NotifFailed           prometheus.Counter
	StartupTimeSeconds    prometheus.Gauge
}

// Counter keys persisted by the CounterStore.
const (
	KeySnapshotsApplied = "snapshots_applied"
	KeyLegsFinished     = "legs_finished"
	KeyMatchesFinished  = "matches_finished"
)
