package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mauv0809/dart-scoreboard/internal/config"
	"github.com/mauv0809/dart-scoreboard/internal/metrics"
	"github.com/mauv0809/dart-scoreboard/internal/scoreboard"
)

func NewServer(board *scoreboard.Board, checkouts CheckoutTable, counters metrics.CounterStore, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Board:          board,
		Checkouts:      checkouts,
		Counters:       counters,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         chi.NewRouter(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	r := s.Router
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Every handler except /metrics goes through paramsMiddleware, so
	// dry_run and verbose work everywhere.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	h := func(handler http.HandlerFunc) http.Handler {
		return Chain(handler, paramsMiddleware)
	}

	if s.MetricsHandler != nil {
		r.Handle("/metrics", s.MetricsHandler)
	}
	r.Method(http.MethodGet, "/health", h(s.HealthCheckHandler()))
	r.Method(http.MethodGet, "/stats", h(s.StatsHandler()))

	r.Method(http.MethodGet, "/matches", h(s.ListMatchesHandler()))
	r.Route("/matches/{id}", func(r chi.Router) {
		r.Method(http.MethodGet, "/", h(s.MatchHandler()))
		r.Method(http.MethodDelete, "/", h(s.DeleteMatchHandler()))
		r.Method(http.MethodGet, "/timeline", h(s.TimelineHandler()))
		r.Method(http.MethodGet, "/cards", h(s.CardsHandler()))
		r.Method(http.MethodGet, "/table", h(s.CurrentTableHandler()))
		r.Method(http.MethodGet, "/sets/{set}/legs/{leg}/table", h(s.LegTableHandler()))
		r.Method(http.MethodPost, "/refresh", h(s.RefreshHandler()))
		r.Method(http.MethodPost, "/turns", h(s.SubmitTurnHandler()))
		r.Method(http.MethodPut, "/turns/{requestId}", h(s.UpdateTurnHandler()))
		r.Method(http.MethodDelete, "/turns/{set}/{leg}/{round}/{player}", h(s.DeleteTurnHandler()))
		r.Method(http.MethodPost, "/reset", h(s.ResetMatchHandler()))
	})

	r.Method(http.MethodGet, "/checkouts", h(s.CheckoutTableHandler()))
	r.Method(http.MethodPost, "/checkouts/reload", h(s.ReloadCheckoutsHandler()))
	r.Method(http.MethodGet, "/checkouts/{remaining}", h(s.CheckoutHandler()))

	r.Method(http.MethodPost, "/pubsub/snapshot", h(s.SnapshotPushHandler()))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
