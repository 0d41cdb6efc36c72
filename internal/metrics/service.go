package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		SnapshotsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoreboard_snapshots_applied_total",
			Help: "The total number of match snapshots whose view models were published.",
		}),
		SnapshotsStale: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoreboard_snapshots_stale_total",
			Help: "The total number of derived views discarded because a newer snapshot arrived.",
		}),
		CheckoutCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoreboard_checkout_cache_hits_total",
			Help: "The total number of checkout table loads served from the durable cache.",
		}),
		CheckoutCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoreboard_checkout_cache_misses_total",
			Help: "The total number of checkout table loads that had to go to the backend.",
		}),
		CheckoutFetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoreboard_checkout_fetch_failures_total",
			Help: "The total number of failed checkout table fetches.",
		}),
		TransformDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scoreboard_transform_duration_seconds",
			Help:    "The duration of deriving all view models for one snapshot.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoreboard_notifications_sent_total",
			Help: "The total number of result notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoreboard_notifications_failed_total",
			Help: "The total number of result notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scoreboard_startup_duration_seconds",
			Help: "The time it took for the application to start up.",
		}),
	}

	reg.MustRegister(
		s.SnapshotsApplied,
		s.SnapshotsStale,
		s.CheckoutCacheHits,
		s.CheckoutCacheMisses,
		s.CheckoutFetchFailures,
		s.TransformDuration,
		s.NotifSent,
		s.NotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncSnapshotsApplied()      { s.SnapshotsApplied.Inc() }
func (s *Service) IncSnapshotsStale()        { s.SnapshotsStale.Inc() }
func (s *Service) IncCheckoutCacheHits()     { s.CheckoutCacheHits.Inc() }
func (s *Service) IncCheckoutCacheMisses()   { s.CheckoutCacheMisses.Inc() }
func (s *Service) IncCheckoutFetchFailures() { s.CheckoutFetchFailures.Inc() }
func (s *Service) IncNotifSent()             { s.NotifSent.Inc() }
func (s *Service) IncNotifFailed()           { s.NotifFailed.Inc() }

func (s *Service) ObserveTransformDuration(duration float64) {
	s.TransformDuration.Observe(duration)
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
