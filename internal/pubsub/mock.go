package pubsub

import (
	"context"
	"sync"
)

var _ PubSubClient = (*MockPubSubClient)(nil)

// MockPubSubClient is a mock implementation of PubSubClient for testing.
// It is safe for concurrent use.
type MockPubSubClient struct {
	mu sync.Mutex

	// Spies for method calls
	SendMessageFunc func(topic EventType, data any) error

	// Messages delivered to the handler by Receive, in order.
	Inbox [][]byte

	// Call records
	SendMessageCalls []SendMessageCall
	HandlerErrors    []error
	Acked            int
	Nacked           int
}

// SendMessageCall holds the arguments for a call to SendMessage.
type SendMessageCall struct {
	Topic EventType
	Data  any
}

// NewMock creates a new mock PubSubClient.
func NewMock() *MockPubSubClient {
	return &MockPubSubClient{}
}

// Reset clears all call records.
func (m *MockPubSubClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMessageCalls = nil
	m.HandlerErrors = nil
	m.Acked = 0
	m.Nacked = 0
}

func (m *MockPubSubClient) SendMessage(_ context.Context, topic EventType, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMessageCalls = append(m.SendMessageCalls, SendMessageCall{Topic: topic, Data: data})
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(topic, data)
	}
	return nil
}

// Receive hands every Inbox message to handle, then returns. Acks and nacks
// are counted the way the real client settles them.
func (m *MockPubSubClient) Receive(ctx context.Context, _ string, handle Handler) error {
	m.mu.Lock()
	inbox := append([][]byte(nil), m.Inbox...)
	m.mu.Unlock()
	for _, data := range inbox {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := handle(ctx, data)
		m.mu.Lock()
		m.HandlerErrors = append(m.HandlerErrors, err)
		if Acknowledge(err) {
			m.Acked++
		} else {
			m.Nacked++
		}
		m.mu.Unlock()
	}
	return nil
}

func (m *MockPubSubClient) Close() {}
