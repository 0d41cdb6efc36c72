package checkout_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/mauv0809/dart-scoreboard/internal/checkout"
	"github.com/mauv0809/dart-scoreboard/internal/metrics"
	"github.com/mauv0809/dart-scoreboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type fakeFetcher struct {
	mu    sync.Mutex
	raw   []byte
	err   error
	calls int
}

func (f *fakeFetcher) FetchCheckouts(context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.raw, f.err
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func standardJSON(t *testing.T) []byte {
	t.Helper()
	raw, err := json.Marshal(checkout.Standard())
	require.NoError(t, err)
	return raw
}

func TestGetCheckout_FetchesOnceAndPersists(t *testing.T) {
	cache := store.NewMockKV()
	fetcher := &fakeFetcher{raw: standardJSON(t)}
	m := metrics.NewMock()
	svc := checkout.NewService(cache, fetcher, m)

	c, err := svc.GetCheckout(context.Background(), 170)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "T20, T20, Bull", checkout.Format(c))
	assert.Equal(t, 3, c.MinDarts)

	c, err = svc.GetCheckout(context.Background(), 169)
	require.NoError(t, err)
	assert.Nil(t, c)

	assert.Equal(t, 1, fetcher.Calls())
	assert.Equal(t, 1, m.CheckoutCacheMisses())
	raw, ok, _ := cache.Get(checkout.CacheKey)
	assert.True(t, ok)
	assert.JSONEq(t, string(standardJSON(t)), raw)
}

func TestGetCheckout_OutOfRangeDoesNotLoad(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("offline")}
	svc := checkout.NewService(nil, fetcher, metrics.NewMock())

	for _, r := range []int{0, -3, 171, 501} {
		c, err := svc.GetCheckout(context.Background(), r)
		assert.NoError(t, err)
		assert.Nil(t, c)
	}
	assert.Equal(t, 0, fetcher.Calls())
}

func TestGetCheckout_UsesCachedTable(t *testing.T) {
	cache := store.NewMockKV()
	require.NoError(t, cache.Set(checkout.CacheKey, string(standardJSON(t))))
	fetcher := &fakeFetcher{err: errors.New("should not be called")}
	m := metrics.NewMock()
	svc := checkout.NewService(cache, fetcher, m)

	c, err := svc.GetCheckout(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "T20, D20", checkout.Format(c))
	assert.Equal(t, 0, fetcher.Calls())
	assert.Equal(t, 1, m.CheckoutCacheHits())
}

func TestGetCheckout_CorruptCacheIsClearedAndRefetched(t *testing.T) {
	cache := store.NewMockKV()
	require.NoError(t, cache.Set(checkout.CacheKey, "{not json"))
	fetcher := &fakeFetcher{raw: standardJSON(t)}
	svc := checkout.NewService(cache, fetcher, metrics.NewMock())

	c, err := svc.GetCheckout(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, "D20", checkout.Format(c))
	assert.Equal(t, []string{checkout.CacheKey}, cache.DeleteCalls)
	assert.Equal(t, 1, fetcher.Calls())

	raw, ok, _ := cache.Get(checkout.CacheKey)
	require.True(t, ok)
	_, err = checkout.Parse([]byte(raw))
	assert.NoError(t, err)
}

func TestGetCheckout_FailedFetchIsRetriedNextCall(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("503")}
	m := metrics.NewMock()
	svc := checkout.NewService(store.NewMockKV(), fetcher, m)

	c, err := svc.GetCheckout(context.Background(), 40)
	assert.Error(t, err)
	assert.Nil(t, c)
	assert.Equal(t, 1, m.CheckoutFetchFailures())

	fetcher.mu.Lock()
	fetcher.err = nil
	fetcher.raw = standardJSON(t)
	fetcher.mu.Unlock()

	c, err = svc.GetCheckout(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, "D20", checkout.Format(c))
	assert.Equal(t, 2, fetcher.Calls())
}

func TestGetCheckout_MalformedResponseIsNotPersisted(t *testing.T) {
	cache := store.NewMockKV()
	fetcher := &fakeFetcher{raw: []byte(`[{"remaining":40,"minDarts":1,"darts":[]}]`)}
	svc := checkout.NewService(cache, fetcher, metrics.NewMock())

	_, err := svc.GetCheckout(context.Background(), 40)
	assert.ErrorIs(t, err, checkout.ErrMalformedTable)
	assert.Empty(t, cache.SetCalls)
}

func TestGetCheckout_ConcurrentFirstUseFetchesOnce(t *testing.T) {
	fetcher := &fakeFetcher{raw: standardJSON(t)}
	svc := checkout.NewService(store.NewMockKV(), fetcher, metrics.NewMock())

	g, ctx := errgroup.WithContext(context.Background())
	for r := 2; r <= 170; r++ {
		g.Go(func() error {
			_, err := svc.GetCheckout(ctx, r)
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, fetcher.Calls())
}

func TestGetCheckout_SumsMatchRemaining(t *testing.T) {
	svc := checkout.NewService(nil, &fakeFetcher{raw: standardJSON(t)}, metrics.NewMock())
	for r := 1; r <= 170; r++ {
		c, err := svc.GetCheckout(context.Background(), r)
		require.NoError(t, err)
		if c == nil {
			continue
		}
		sum := 0
		for _, d := range c.Darts {
			sum += d.Score
		}
		assert.Equal(t, r, sum)
	}
}

func TestTable_IsOrdered(t *testing.T) {
	svc := checkout.NewService(nil, checkout.StaticFetcher{Raw: standardJSON(t)}, metrics.NewMock())
	table, err := svc.Table(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, table)
	assert.Equal(t, 2, table[0].Remaining)
	assert.Equal(t, 170, table[len(table)-1].Remaining)
}

func TestGetCheckout_InvalidEntryKeepsTheRest(t *testing.T) {
	cache := store.NewMockKV()
	fetcher := &fakeFetcher{raw: []byte(`[
		{"remaining":40,"minDarts":1,"darts":[{"section":20,"area":"DOUBLE","score":40}]},
		{"remaining":41,"minDarts":2,"darts":[{"section":20,"area":"DOUBLE","score":40}]}
	]`)}
	svc := checkout.NewService(cache, fetcher, metrics.NewMock())

	c, err := svc.GetCheckout(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, "D20", checkout.Format(c))

	c, err = svc.GetCheckout(context.Background(), 41)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Equal(t, 1, fetcher.Calls())
	assert.Len(t, cache.SetCalls, 1)
}

func TestReload_RefetchesPastTheCache(t *testing.T) {
	cache := store.NewMockKV()
	require.NoError(t, cache.Set(checkout.CacheKey, string(standardJSON(t))))
	fetcher := &fakeFetcher{raw: []byte(`[{"remaining":40,"minDarts":1,"darts":[{"section":20,"area":"DOUBLE","score":40}]}]`)}
	svc := checkout.NewService(cache, fetcher, metrics.NewMock())

	c, err := svc.GetCheckout(context.Background(), 170)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Zero(t, fetcher.Calls())

	n, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, fetcher.Calls())

	c, err = svc.GetCheckout(context.Background(), 170)
	require.NoError(t, err)
	assert.Nil(t, c)
	cached, ok, err := cache.Get(checkout.CacheKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, cached, `"remaining":40`)
}
