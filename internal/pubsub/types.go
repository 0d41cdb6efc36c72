package pubsub

import (
	"errors"

	"cloud.google.com/go/pubsub"
)

// ErrUndecodable marks payloads that can never be processed.
var ErrUndecodable = errors.New("undecodable message")

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType names the topics the scoreboard publishes and consumes.
type EventType string

const (
	EventMatchSnapshot EventType = "match-snapshot"
	EventSubmitTurn    EventType = "submit-turn"
	EventUpdateTurn    EventType = "update-turn"
	EventDeleteTurn    EventType = "delete-turn"
	EventResetMatch    EventType = "reset-match"
	EventDeleteMatch   EventType = "delete-match"
)

// PushEnvelope is the body Pub/Sub POSTs to a push endpoint. Data is base64.
type PushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data       string            `json:"data"`
		MessageID  string            `json:"messageId"`
		Attributes map[string]string `json:"attributes,omitempty"`
	} `json:"message"`
}
