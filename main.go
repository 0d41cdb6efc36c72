package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/dart-scoreboard/internal/backend"
	"github.com/mauv0809/dart-scoreboard/internal/checkout"
	"github.com/mauv0809/dart-scoreboard/internal/config"
	"github.com/mauv0809/dart-scoreboard/internal/database"
	"github.com/mauv0809/dart-scoreboard/internal/feed"
	server "github.com/mauv0809/dart-scoreboard/internal/http"
	"github.com/mauv0809/dart-scoreboard/internal/legtable"
	"github.com/mauv0809/dart-scoreboard/internal/match"
	"github.com/mauv0809/dart-scoreboard/internal/metrics"
	"github.com/mauv0809/dart-scoreboard/internal/notifier/slack"
	"github.com/mauv0809/dart-scoreboard/internal/pubsub"
	"github.com/mauv0809/dart-scoreboard/internal/scoreboard"
	"github.com/mauv0809/dart-scoreboard/internal/store"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()

	db, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		db.Close()
	}()
	log.Info("Database initialization time recorded", "duration_ms", time.Since(startTime).Milliseconds())

	policy, err := legtable.PolicyFromString(cfg.RemainingPolicy)
	if err != nil {
		log.Fatalf("Invalid remaining policy: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	counters := metrics.New(db)
	backendClient := backend.NewClient(cfg.BackendURL, cfg.Checkout.CacheTTL)

	var fetcher checkout.Fetcher = backendClient
	if cfg.Checkout.Seed {
		raw, err := json.Marshal(checkout.Standard())
		if err != nil {
			log.Fatalf("Failed to encode built-in checkout table: %s", err)
		}
		fetcher = checkout.StaticFetcher{Raw: raw}
	}
	checkouts := checkout.NewService(store.NewKV(db, cfg.Checkout.CacheTTL), fetcher, metricsSvc)

	deps := scoreboard.Deps{
		Backend:  backendClient,
		Lookup:   checkouts,
		Store:    store.NewSnapshots(db),
		Counters: counters,
		Metrics:  metricsSvc,
		Policy:   policy,
	}
	if cfg.Slack.Enabled() {
		deps.Notifier = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Info("Slack is not configured, notifications are disabled")
	}

	var ps pubsub.PubSubClient
	if cfg.PubSub.Enabled() {
		ps, err = pubsub.New(ctx, cfg.PubSub.ProjectID)
		if err != nil {
			log.Fatalf("Failed to create pubsub client: %s", err)
		}
		defer ps.Close()
		if cfg.PubSub.CommandTopic {
			deps.Publisher = ps
		}
	}

	board := scoreboard.New(deps)
	restored, err := board.Restore(ctx)
	if err != nil {
		log.Error("Failed to restore snapshots", "error", err)
	}
	log.Info("Board ready", "restored", restored)

	s := server.NewServer(board, checkouts, counters, metricsHandler, cfg)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.FeedURL != "" {
		sub := feed.New(cfg.FeedURL, func(ctx context.Context, m *match.Match) error {
			_, err := board.Apply(ctx, m, false)
			if errors.Is(err, scoreboard.ErrStaleSnapshot) {
				return nil
			}
			return err
		})
		g.Go(func() error {
			if err := sub.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	if ps != nil && cfg.PubSub.SnapshotSubscription != "" {
		g.Go(func() error {
			log.Info("Receiving snapshots", "subscription", cfg.PubSub.SnapshotSubscription)
			return ps.Receive(gctx, cfg.PubSub.SnapshotSubscription, board.HandleMessage)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", "error", err)
	}
	log.Info("Server process shutting down")
}
