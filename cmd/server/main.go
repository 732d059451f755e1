package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	delivery "github.com/markstore/backend/internal/delivery/http"
	"github.com/markstore/backend/internal/entity"
	"github.com/markstore/backend/internal/messaging"
	"github.com/markstore/backend/internal/messaging/gochannel"
	"github.com/markstore/backend/internal/messaging/kafka"
	"github.com/markstore/backend/internal/repository/memory"
	"github.com/markstore/backend/internal/service"
)

func main() {
	_ = godotenv.Load()
	slog.SetLogLoggerLevel(slog.LevelDebug)

	// --- State (process-local; resets on restart by design) ---
	catalog := memory.NewCatalog()
	ledger := memory.NewLedger()
	carts := memory.NewCarts()
	users := memory.NewUsers()
	seed(catalog, users)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Events ---
	var publisher messaging.Publisher
	var subscriber messaging.Subscriber
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		broker := kafka.NewBroker(strings.Split(brokers, ","))
		defer broker.Close()
		publisher, subscriber = broker, broker
		slog.Info("Events on Kafka", "brokers", brokers)
	} else {
		broker := gochannel.NewBroker(slog.Default())
		defer broker.Close()
		publisher, subscriber = broker, broker
		slog.Info("Events on in-process bus")
	}

	// --- Services ---
	identitySvc := service.NewIdentityService(users, []byte(getEnv("JWT_SECRET", "markstore-dev-secret")))
	catalogSvc := service.NewCatalogService(catalog, publisher)
	cartSvc := service.NewCartService(carts, catalog)
	checkoutSvc := service.NewCheckoutService(catalog, ledger, carts, publisher)
	orderSvc := service.NewOrderService(ledger)
	analyticsSvc := service.NewAnalyticsService(catalog, ledger)

	// Consumer: orders.placed → notification log. Subscribed before the
	// server accepts traffic so no placement goes unannounced.
	go subscriber.Consume(ctx, messaging.TopicOrdersPlaced, "markstore-notifications", func(ctx context.Context, payload []byte) error {
		var event entity.OrderPlaced
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("failed to unmarshal OrderPlaced: %w", err)
		}
		slog.Info("📦 Order placed",
			"order_id", event.OrderID,
			"user_id", event.UserID,
			"total", event.Total,
			"items", len(event.Items),
		)
		return nil
	})

	// --- HTTP ---
	handler := delivery.NewHandler(identitySvc, catalogSvc, cartSvc, checkoutSvc, orderSvc, analyticsSvc)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:    ":" + getEnv("PORT", "8080"),
		Handler: delivery.EnableCORS(mux),
	}

	go func() {
		slog.Info("🚀 HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")
	httpServer.Shutdown(context.Background())
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
