package gochannel

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markstore/backend/internal/entity"
	"github.com/markstore/backend/internal/messaging"
)

func TestBroker_PublishConsumeRoundTrip(t *testing.T) {
	broker := NewBroker(slog.Default())
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan entity.OrderPlaced, 1)
	go broker.Consume(ctx, messaging.TopicOrdersPlaced, "test", func(ctx context.Context, payload []byte) error {
		var event entity.OrderPlaced
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}
		received <- event
		return nil
	})

	// Give the subscriber a moment to attach before publishing.
	time.Sleep(50 * time.Millisecond)

	sent := entity.OrderPlaced{OrderID: 7, UserID: 1, Total: 3000, PlacedAt: time.Now().UTC()}
	require.NoError(t, broker.PublishEvent(ctx, messaging.TopicOrdersPlaced, "7", sent))

	select {
	case got := <-received:
		assert.Equal(t, sent.OrderID, got.OrderID)
		assert.Equal(t, sent.Total, got.Total)
	case <-time.After(2 * time.Second):
		t.Fatal("event never arrived")
	}
}

func TestBroker_ConsumeStopsOnContextCancel(t *testing.T) {
	broker := NewBroker(slog.Default())
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		broker.Consume(ctx, messaging.TopicStockUpdated, "test", func(ctx context.Context, payload []byte) error {
			return nil
		})
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop on cancel")
	}
}
