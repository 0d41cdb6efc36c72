package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName          string
	Port            string
	BackendURL      string
	FeedURL         string
	RemainingPolicy string
	Checkout        CheckoutConfig
	Slack           SlackConfig
	Turso           TursoConfig
	PubSub          PubSubConfig
}

type CheckoutConfig struct {
	CacheTTL time.Duration
	// Seed loads the built-in table into an empty cache instead of asking the backend.
	Seed bool
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

// Enabled reports whether notifications can be sent.
func (s SlackConfig) Enabled() bool {
	return s.Token != "" && s.ChannelID != ""
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type PubSubConfig struct {
	ProjectID            string
	SnapshotSubscription string
	// CommandTopic routes turn submissions through Pub/Sub when set.
	CommandTopic bool
}

// Enabled reports whether a Pub/Sub client should be created.
func (p PubSubConfig) Enabled() bool {
	return p.ProjectID != ""
}
