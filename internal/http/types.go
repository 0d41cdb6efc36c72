package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/dart-scoreboard/internal/checkout"
	"github.com/mauv0809/dart-scoreboard/internal/config"
	"github.com/mauv0809/dart-scoreboard/internal/metrics"
	"github.com/mauv0809/dart-scoreboard/internal/scoreboard"
)

// CheckoutTable is the part of the checkout service the server exposes.
type CheckoutTable interface {
	checkout.Lookup
	Table(ctx context.Context) ([]checkout.Checkout, error)
	Reload(ctx context.Context) (int, error)
}

type Server struct {
	Board          *scoreboard.Board
	Checkouts      CheckoutTable
	Counters       metrics.CounterStore
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         chi.Router
}

type matchSummary struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Generation uint64 `json:"generation"`
	UpdatedAt  string `json:"updatedAt"`
}
