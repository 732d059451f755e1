package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/markstore/backend/internal/entity"
	"github.com/markstore/backend/internal/repository"
)

// OrderService serves the order history and the admin order dashboard.
type OrderService struct {
	ledger repository.Ledger
}

func NewOrderService(ledger repository.Ledger) *OrderService {
	return &OrderService{ledger: ledger}
}

// OrdersForUser returns the actor's own orders, most recent first.
func (s *OrderService) OrdersForUser(ctx context.Context, actor *entity.User) ([]entity.Order, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	return s.ledger.ByUser(actor.ID), nil
}

// Order returns a single order. Non-admins may only see their own.
func (s *OrderService) Order(ctx context.Context, actor *entity.User, id int64) (entity.Order, error) {
	if err := requireUser(actor); err != nil {
		return entity.Order{}, err
	}

	o, ok := s.ledger.ByID(id)
	if !ok {
		return entity.Order{}, fmt.Errorf("order %d: %w", id, entity.ErrOrderNotFound)
	}
	if o.UserID != actor.ID && !actor.IsAdmin {
		return entity.Order{}, entity.ErrUnauthorized
	}
	return o, nil
}

// AllOrders returns every order, admin only.
func (s *OrderService) AllOrders(ctx context.Context, actor *entity.User) ([]entity.Order, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.ledger.All(), nil
}

// SetStatus relabels an order. Transitions are deliberately unconstrained:
// the admin may jump between pending, shipped, completed, or any custom
// label in any sequence.
func (s *OrderService) SetStatus(ctx context.Context, actor *entity.User, id int64, status entity.OrderStatus) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if status == "" {
		return fmt.Errorf("%w: status must not be empty", entity.ErrInvalidInput)
	}
	slog.Info("Service: Updating order status", "order_id", id, "status", status)

	if err := s.ledger.SetStatus(id, status); err != nil {
		return fmt.Errorf("order %d: %w", id, err)
	}
	return nil
}

// OrdersSummary is the admin dashboard headline: totals over the whole
// ledger.
type OrdersSummary struct {
	TotalOrders int   `json:"total_orders"`
	Revenue     int64 `json:"revenue"`
	Pending     int   `json:"pending"`
	Completed   int   `json:"completed"`
}

// Summary folds the ledger into dashboard counters, admin only.
func (s *OrderService) Summary(ctx context.Context, actor *entity.User) (OrdersSummary, error) {
	if err := requireAdmin(actor); err != nil {
		return OrdersSummary{}, err
	}

	var sum OrdersSummary
	for _, o := range s.ledger.All() {
		sum.TotalOrders++
		sum.Revenue += o.Total
		switch o.Status {
		case entity.OrderStatusPending:
			sum.Pending++
		case entity.OrderStatusCompleted:
			sum.Completed++
		}
	}
	return sum, nil
}

// UserStats summarizes a user's own purchase history.
type UserStats struct {
	TotalOrders int            `json:"total_orders"`
	TotalSpent  int64          `json:"total_spent"`
	Recent      []entity.Order `json:"recent"`
}

// Stats returns the actor's order count, total spent, and their three most
// recent orders.
func (s *OrderService) Stats(ctx context.Context, actor *entity.User) (UserStats, error) {
	if err := requireUser(actor); err != nil {
		return UserStats{}, err
	}

	orders := s.ledger.ByUser(actor.ID)
	stats := UserStats{TotalOrders: len(orders)}
	for _, o := range orders {
		stats.TotalSpent += o.Total
	}
	if len(orders) > 3 {
		orders = orders[:3]
	}
	stats.Recent = orders
	return stats, nil
}
