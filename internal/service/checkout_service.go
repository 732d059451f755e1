package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/markstore/backend/internal/entity"
	"github.com/markstore/backend/internal/messaging"
	"github.com/markstore/backend/internal/repository"
)

// CheckoutService converts a cart into an order. It is the only writer of
// the ledger and the only caller that decrements stock, and a single commit
// lock serializes the whole validate-decrement-append sequence, so two
// commits can neither share an order id nor jointly oversell a product.
type CheckoutService struct {
	catalog   repository.Catalog
	ledger    repository.Ledger
	carts     repository.Carts
	publisher messaging.Publisher

	mu sync.Mutex
}

func NewCheckoutService(
	catalog repository.Catalog,
	ledger repository.Ledger,
	carts repository.Carts,
	publisher messaging.Publisher,
) *CheckoutService {
	return &CheckoutService{
		catalog:   catalog,
		ledger:    ledger,
		carts:     carts,
		publisher: publisher,
	}
}

// Commit validates the actor's cart against current stock and, if every line
// fits, decrements stock, appends the order, and clears the cart. Validation
// fails closed: any failure leaves stock, ledger, and cart untouched.
func (s *CheckoutService) Commit(ctx context.Context, actor *entity.User, address string, deliveryDate time.Time) (entity.Order, error) {
	if err := requireUser(actor); err != nil {
		return entity.Order{}, err
	}
	slog.Info("Service: Committing checkout", "user_id", actor.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	var order entity.Order
	err := s.carts.Update(actor.ID, func(c *entity.Cart) error {
		if len(c.Lines) == 0 {
			return entity.ErrEmptyCart
		}

		total, err := cartTotal(c.Lines, s.catalog)
		if err != nil {
			return err
		}

		// Re-check every line against current stock; it may have moved since
		// the line was added.
		for _, line := range c.Lines {
			product, ok := s.catalog.Get(line.ProductID)
			if !ok {
				return fmt.Errorf("product %d: %w", line.ProductID, entity.ErrProductNotFound)
			}
			if line.Quantity > product.Stock {
				return fmt.Errorf("%w for product %d (available: %d, requested: %d)",
					entity.ErrInsufficientStock, line.ProductID, product.Stock, line.Quantity)
			}
		}

		if err := s.decrementAll(c.Lines); err != nil {
			return err
		}

		items := make([]entity.CartItem, len(c.Lines))
		copy(items, c.Lines)

		order = s.ledger.Append(entity.Order{
			UserID:       actor.ID,
			Items:        items,
			CreatedAt:    time.Now(),
			Status:       entity.OrderStatusPending,
			Total:        total,
			Address:      address,
			DeliveryDate: deliveryDate,
		})

		c.Lines = nil
		return nil
	})
	if err != nil {
		return entity.Order{}, err
	}

	event := entity.OrderPlaced{
		OrderID:  order.ID,
		UserID:   order.UserID,
		Items:    order.Items,
		Total:    order.Total,
		PlacedAt: order.CreatedAt,
	}
	if err := s.publisher.PublishEvent(ctx, messaging.TopicOrdersPlaced, strconv.FormatInt(order.ID, 10), event); err != nil {
		// The order is committed; a lost notification must not undo it.
		slog.Error("Failed to publish OrderPlaced", "order_id", order.ID, "err", err)
	}

	slog.Info("Service: Order committed", "order_id", order.ID, "total", order.Total, "items", len(order.Items))
	return order, nil
}

// decrementAll applies every line's decrement or none. Validation has
// already confirmed sufficiency, but if a store raced us and a decrement
// still fails, the decrements applied so far are put back.
func (s *CheckoutService) decrementAll(lines []entity.CartItem) error {
	applied := make([]entity.CartItem, 0, len(lines))
	for _, line := range lines {
		if _, err := s.catalog.AdjustStock(line.ProductID, -line.Quantity); err != nil {
			for _, prev := range applied {
				if _, rbErr := s.catalog.AdjustStock(prev.ProductID, prev.Quantity); rbErr != nil {
					slog.Error("Failed to roll back stock", "product_id", prev.ProductID, "err", rbErr)
				}
			}
			return fmt.Errorf("failed to reserve stock for product %d: %w", line.ProductID, err)
		}
		applied = append(applied, line)
	}
	return nil
}
