package metrics

import (
	"testing"

	"github.com/mauv0809/dart-scoreboard/internal/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) CounterStore {
	t.Helper()

	db, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return New(db)
}

func TestIncrementAndGetAll(t *testing.T) {
	store := setupTestDB(t)

	counters, err := store.GetAll()
	require.NoError(t, err)
	assert.Empty(t, counters)

	store.Increment(KeySnapshotsApplied)
	counters, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{KeySnapshotsApplied: 1}, counters)

	store.Increment(KeySnapshotsApplied)
	store.Increment(KeyLegsFinished)
	counters, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		KeySnapshotsApplied: 2,
		KeyLegsFinished:     1,
	}, counters)
}

func TestService_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncSnapshotsApplied()
	s.IncSnapshotsApplied()
	s.IncCheckoutFetchFailures()
	s.ObserveTransformDuration(0.002)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.SnapshotsApplied))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.CheckoutFetchFailures))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.SnapshotsStale))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "scoreboard_snapshots_applied_total")
	assert.Contains(t, names, "scoreboard_transform_duration_seconds")
}

func TestMock_CountsConcurrently(t *testing.T) {
	m := NewMock()
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			m.IncNotifSent()
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	assert.Equal(t, 10, m.NotifSent())
	assert.Equal(t, 0, m.NotifFailed())
}
