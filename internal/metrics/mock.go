package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                    sync.Mutex
	snapshotsApplied      int
	snapshotsStale        int
	checkoutCacheHits     int
	checkoutCacheMisses   int
	checkoutFetchFailures int
	transformDurations    []float64
	notifSent             int
	notifFailed           int
	startupTime           float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		transformDurations: make([]float64, 0),
	}
}

func (m *Mock) inc(field *int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*field++
}

func (m *Mock) get(field *int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *field
}

func (m *Mock) IncSnapshotsApplied()      { m.inc(&m.snapshotsApplied) }
func (m *Mock) IncSnapshotsStale()        { m.inc(&m.snapshotsStale) }
func (m *Mock) IncCheckoutCacheHits()     { m.inc(&m.checkoutCacheHits) }
func (m *Mock) IncCheckoutCacheMisses()   { m.inc(&m.checkoutCacheMisses) }
func (m *Mock) IncCheckoutFetchFailures() { m.inc(&m.checkoutFetchFailures) }
func (m *Mock) IncNotifSent()             { m.inc(&m.notifSent) }
func (m *Mock) IncNotifFailed()           { m.inc(&m.notifFailed) }

func (m *Mock) ObserveTransformDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transformDurations = append(m.transformDurations, duration)
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

func (m *Mock) SnapshotsApplied() int      { return m.get(&m.snapshotsApplied) }
func (m *Mock) SnapshotsStale() int        { return m.get(&m.snapshotsStale) }
func (m *Mock) CheckoutCacheHits() int     { return m.get(&m.checkoutCacheHits) }
func (m *Mock) CheckoutCacheMisses() int   { return m.get(&m.checkoutCacheMisses) }
func (m *Mock) CheckoutFetchFailures() int { return m.get(&m.checkoutFetchFailures) }
func (m *Mock) NotifSent() int             { return m.get(&m.notifSent) }
func (m *Mock) NotifFailed() int           { return m.get(&m.notifFailed) }

// TransformDurations returns a copy of every observed transform duration.
func (m *Mock) TransformDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.transformDurations...)
}
