package messaging

import "context"

// Publisher delivers domain events to a topic.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
}

// Subscriber consumes a topic, invoking handler once per message. Consume
// blocks until the context is cancelled.
type Subscriber interface {
	Consume(ctx context.Context, topic string, groupID string, handler func(ctx context.Context, payload []byte) error)
}

// Topics published by the store.
const (
	TopicOrdersPlaced = "orders.placed"
	TopicStockUpdated = "inventory.stock"
)
