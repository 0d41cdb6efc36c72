package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/dart-scoreboard/internal/metrics"
)

var _ Lookup = (*Service)(nil)

// Service answers checkout lookups from a table that is loaded once, from the
// durable cache when possible and from the backend otherwise.
type Service struct {
	cache   Cache
	fetcher Fetcher
	metrics metrics.Metrics

	mu    sync.Mutex
	table map[int]Checkout
}

// NewService creates a checkout service. cache may be nil, in which case the
// table is only held in memory.
func NewService(cache Cache, fetcher Fetcher, metrics metrics.Metrics) *Service {
	return &Service{
		cache:   cache,
		fetcher: fetcher,
		metrics: metrics,
	}
}

// GetCheckout returns the checkout for remaining, or nil when the score cannot
// be finished. An error means the table could not be loaded; the next call
// tries again.
func (s *Service) GetCheckout(ctx context.Context, remaining int) (*Checkout, error) {
	if remaining < 1 || remaining > MaxRemaining {
		return nil, nil
	}
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	c, ok := table[remaining]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// Table returns every loaded checkout ordered by remaining score.
func (s *Service) Table(ctx context.Context) ([]Checkout, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Checkout, 0, len(table))
	for r := 1; r <= MaxRemaining; r++ {
		if c, ok := table[r]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// Reload drops the in-memory and cached table and fetches it again. It
// returns the number of entries loaded.
func (s *Service) Reload(ctx context.Context) (int, error) {
	s.mu.Lock()
	s.table = nil
	if s.cache != nil {
		if err := s.cache.Delete(CacheKey); err != nil {
			log.Warn("Failed to delete cached checkout table", "error", err)
		}
	}
	s.mu.Unlock()

	table, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(table), nil
}

func (s *Service) load(ctx context.Context) (map[int]Checkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table != nil {
		return s.table, nil
	}
	if table, ok := s.fromCache(); ok {
		s.metrics.IncCheckoutCacheHits()
		s.table = table
		return table, nil
	}

	s.metrics.IncCheckoutCacheMisses()
	raw, err := s.fetcher.FetchCheckouts(ctx)
	if err != nil {
		s.metrics.IncCheckoutFetchFailures()
		return nil, fmt.Errorf("failed to fetch checkout table: %w", err)
	}
	parsed, err := Parse(raw)
	if err != nil {
		s.metrics.IncCheckoutFetchFailures()
		return nil, fmt.Errorf("backend sent an invalid checkout table: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Set(CacheKey, string(raw)); err != nil {
			log.Warn("Failed to persist checkout table", "error", err)
		}
	}
	log.Info("Loaded checkout table from backend", "entries", len(parsed))
	s.table = index(parsed)
	return s.table, nil
}

func (s *Service) fromCache() (map[int]Checkout, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok, err := s.cache.Get(CacheKey)
	if err != nil {
		log.Warn("Failed to read cached checkout table", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	parsed, err := Parse([]byte(raw))
	if err != nil {
		log.Warn("Discarding malformed cached checkout table", "error", err)
		if err := s.cache.Delete(CacheKey); err != nil {
			log.Warn("Failed to delete cached checkout table", "error", err)
		}
		return nil, false
	}
	log.Debug("Loaded checkout table from cache", "entries", len(parsed))
	return index(parsed), true
}

// index keeps the first entry per remaining score.
func index(table []Checkout) map[int]Checkout {
	out := make(map[int]Checkout, len(table))
	for _, c := range table {
		if _, ok := out[c.Remaining]; !ok {
			out[c.Remaining] = c
		}
	}
	return out
}

// StaticFetcher serves a fixed table, for running without a backend.
type StaticFetcher struct {
	Raw []byte
}

func (f StaticFetcher) FetchCheckouts(context.Context) ([]byte, error) {
	return f.Raw, nil
}
