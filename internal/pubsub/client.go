package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

func New(ctx context.Context, projectID string) (PubSubClient, error) {
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	teardown := func() {
		pubSubC.Close()
	}

	return &client{
		client:   pubSubC,
		teardown: teardown,
	}, nil
}

// SendMessage publishes data msgpack-encoded and waits for the server ack.
func (c *client) SendMessage(ctx context.Context, topic EventType, data any) error {
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	message := &pubsub.Message{
		Data:       msgpackData,
		Attributes: map[string]string{"event": string(topic)},
	}
	result := c.client.Topic(string(topic)).Publish(ctx, message)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return err
	}
	log.Info("SendMessage", "serverID", serverID, "topic", topic)
	return nil
}

// Receive pulls from the subscription until ctx is cancelled. See Acknowledge
// for which messages are acked.
func (c *client) Receive(ctx context.Context, subscription string, handle Handler) error {
	sub := c.client.Subscription(subscription)
	log.Info("Receiving from subscription", "subscription", subscription)
	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		err := handle(ctx, msg.Data)
		if err != nil {
			log.Error("Failed to handle message", "error", err, "messageID", msg.ID)
		}
		if Acknowledge(err) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
}

// Acknowledge reports whether a message whose handler returned err should be
// acked. Undecodable payloads are acked too, redelivering them cannot help.
func Acknowledge(err error) bool {
	return err == nil || errors.Is(err, ErrUndecodable)
}

func (c *client) Close() {
	c.teardown()
}

// Decode unmarshals a msgpack payload into returnValue. Failures wrap ErrUndecodable.
func Decode(data []byte, returnValue any) error {
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		return fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return nil
}

// DecodePush unwraps a push request body into the raw message payload.
func DecodePush(body []byte) ([]byte, error) {
	var env PushEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: invalid push envelope: %v", ErrUndecodable, err)
	}
	raw, err := base64.StdEncoding.DecodeString(env.Message.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 data: %v", ErrUndecodable, err)
	}
	return raw, nil
}

// EncodePush builds a push request body around data, msgpack-encoded.
func EncodePush(subscription string, data any) ([]byte, error) {
	raw, err := msgpack.Marshal(data)
	if err != nil {
		return nil, err
	}
	var env PushEnvelope
	env.Subscription = subscription
	env.Message.Data = base64.StdEncoding.EncodeToString(raw)
	return json.Marshal(env)
}
