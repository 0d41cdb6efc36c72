package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/dart-scoreboard/internal/checkout"
	"github.com/mauv0809/dart-scoreboard/internal/database"
	"github.com/mauv0809/dart-scoreboard/internal/match"
	"github.com/mauv0809/dart-scoreboard/internal/store"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{"DB_NAME": "scoreboard.db"}
	for _, key := range []string{"DB_NAME", "TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"} {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

func main() {
	matches := flag.Int("matches", 0, "Number of demo matches to seed")
	ttl := flag.Duration("ttl", 24*time.Hour, "How long the seeded checkout table stays valid")
	flag.Parse()

	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer db.Close()

	table := checkout.Standard()
	raw, err := json.Marshal(table)
	if err != nil {
		log.Fatalf("Failed to encode checkout table: %s", err)
	}
	if err := store.NewKV(db, *ttl).Set(checkout.CacheKey, string(raw)); err != nil {
		log.Fatalf("Failed to store checkout table: %s", err)
	}
	log.Info("Seeded checkout table", "entries", len(table))

	if *matches == 0 {
		return
	}
	snapshots := store.NewSnapshots(db)
	startTime := time.Now()
	for i := 0; i < *matches; i++ {
		if err := snapshots.SaveSnapshot(demoMatch(i)); err != nil {
			log.Fatalf("Failed to save demo match: %s", err)
		}
	}
	log.Info("Successfully inserted demo matches", "count", *matches, "duration", time.Since(startTime))
}

// demoMatch builds a 501 match between two players, part way into its first leg.
func demoMatch(n int) *match.Match {
	players := []match.Player{
		{ID: uuid.NewString(), Name: fmt.Sprintf("Seeder Player %d", 2*n+1), Type: match.PlayerTypeHuman},
		{ID: uuid.NewString(), Name: fmt.Sprintf("Seeder Player %d", 2*n+2), Type: match.PlayerTypeHuman},
	}
	remaining := map[string]int{players[0].ID: 501, players[1].ID: 501}

	var rounds []match.RoundEntry
	played := 1 + rand.Intn(6)
	for r := 1; r <= played; r++ {
		scores := make(map[string]match.RoundScore, len(players))
		for _, p := range players {
			score := 20 + rand.Intn(81)
			remaining[p.ID] -= score
			left := remaining[p.ID]
			scores[p.ID] = match.RoundScore{Score: score, Remaining: &left, DartsUsed: 3}
		}
		rounds = append(rounds, match.RoundEntry{RoundNumber: r, Round: match.Round{Scores: scores}})
	}

	set, leg, round := 1, 1, len(rounds)+1
	thrower := players[0].ID
	return &match.Match{
		ID:      uuid.NewString(),
		Status:  match.StatusInPlay,
		Players: players,
		MatchSettings: match.MatchSettings{
			X01:    501,
			BestOf: match.BestOf{Type: match.BestOfSets, Sets: 3, Legs: 3},
		},
		MatchProgress: match.MatchProgress{CurrentSet: &set, CurrentLeg: &leg, CurrentRound: &round, CurrentThrower: &thrower},
		Sets: []match.SetEntry{{
			SetNumber: 1,
			Set: match.Set{
				ThrowsFirst: thrower,
				Legs:        []match.LegEntry{{LegNumber: 1, Leg: match.Leg{ThrowsFirst: thrower, Rounds: rounds}}},
			},
		}},
	}
}
