package pubsub

import "context"

// Handler processes the raw payload of one received message. A returned error
// nacks the message so it is redelivered, unless it wraps ErrUndecodable.
type Handler func(ctx context.Context, data []byte) error

type PubSubClient interface {
	SendMessage(ctx context.Context, topic EventType, data any) error
	Receive(ctx context.Context, subscription string, handle Handler) error
	Close()
}
