package gochannel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/markstore/backend/internal/messaging"
)

// Broker is an in-process pub/sub built on Watermill's GoChannel. It is the
// default transport: the whole store runs in one process, so events only
// need to cross goroutines, not the network.
type Broker struct {
	pubsub *gochannel.GoChannel
}

// NewBroker creates an in-process publisher and subscriber pair.
func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		pubsub: gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger)),
	}
}

func (b *Broker) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)
	msg.Metadata.Set("key", key)
	msg.SetContext(ctx)

	return b.pubsub.Publish(topic, msg)
}

func (b *Broker) Consume(ctx context.Context, topic string, groupID string, handler func(ctx context.Context, payload []byte) error) {
	// GoChannel has no consumer groups; groupID is accepted for interface
	// parity with the Kafka broker and ignored.
	msgs, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		slog.Error("Failed to subscribe", "topic", topic, "err", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Consumer shutting down", "topic", topic)
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if err := handler(ctx, msg.Payload); err != nil {
				slog.Error("Error handling message", "topic", topic, "err", err)
			}
			msg.Ack()
		}
	}
}

// Close shuts the pub/sub down, closing all subscriber channels.
func (b *Broker) Close() error {
	return b.pubsub.Close()
}

var _ messaging.Publisher = (*Broker)(nil)
var _ messaging.Subscriber = (*Broker)(nil)
