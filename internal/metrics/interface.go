package metrics

// Metrics defines the interface for collecting scoreboard metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncSnapshotsApplied()
	IncSnapshotsStale()
	IncCheckoutCacheHits()
	IncCheckoutCacheMisses()
	IncCheckoutFetchFailures()
	ObserveTransformDuration(duration float64)
	IncNotifSent()
	IncNotifFailed()
	SetStartupTime(duration float64)
}

// CounterStore persists named counters across restarts.
type CounterStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
