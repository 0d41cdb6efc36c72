package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	cfg, err := FromLookup(os.LookupEnv)
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	return cfg
}

// FromLookup builds a Config from a lookup function such as os.LookupEnv.
// BACKEND_URL is the only required variable.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	var missing []string
	getEnv := func(key string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		missing = append(missing, key)
		return ""
	}
	getEnvDefault := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		DBName:          getEnvDefault("DB_NAME", "scoreboard.db"),
		Port:            getEnvDefault("PORT", "8080"),
		BackendURL:      getEnv("BACKEND_URL"),
		FeedURL:         getEnvDefault("FEED_URL", ""),
		RemainingPolicy: getEnvDefault("REMAINING_POLICY", "backend"),
		Slack: SlackConfig{
			Token:     getEnvDefault("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnvDefault("SLACK_CHANNEL_ID", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnvDefault("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvDefault("TURSO_AUTH_TOKEN", ""),
		},
		PubSub: PubSubConfig{
			ProjectID:            getEnvDefault("GCP_PROJECT", ""),
			SnapshotSubscription: getEnvDefault("PUBSUB_SNAPSHOT_SUBSCRIPTION", ""),
		},
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %v", missing)
	}

	ttl, err := time.ParseDuration(getEnvDefault("CHECKOUT_CACHE_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid CHECKOUT_CACHE_TTL: %w", err)
	}
	cfg.Checkout.CacheTTL = ttl

	flags := map[string]*bool{
		"CHECKOUT_SEED":        &cfg.Checkout.Seed,
		"PUBSUB_COMMAND_TOPIC": &cfg.PubSub.CommandTopic,
	}
	for key, dst := range flags {
		v, err := strconv.ParseBool(getEnvDefault(key, "false"))
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = v
	}
	return cfg, nil
}
