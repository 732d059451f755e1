package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/markstore/backend/internal/entity"
	"github.com/markstore/backend/internal/repository"
)

// CartService manages the per-user carts: line merging, stock-aware adds,
// and the error-carrying total calculation.
type CartService struct {
	carts   repository.Carts
	catalog repository.Catalog
}

func NewCartService(carts repository.Carts, catalog repository.Catalog) *CartService {
	return &CartService{
		carts:   carts,
		catalog: catalog,
	}
}

// Cart returns the actor's current cart.
func (s *CartService) Cart(ctx context.Context, actor *entity.User) (entity.Cart, error) {
	if err := requireUser(actor); err != nil {
		return entity.Cart{}, err
	}
	return s.carts.Get(actor.ID), nil
}

// AddItem merges quantity into the actor's cart line for a product, creating
// the line if absent. The merged quantity may never exceed the product's
// current stock.
func (s *CartService) AddItem(ctx context.Context, actor *entity.User, productID int64, quantity int) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	slog.Info("Service: Adding item to cart", "user_id", actor.ID, "product_id", productID, "quantity", quantity)

	if quantity <= 0 {
		return fmt.Errorf("%w: got %d", entity.ErrInvalidQuantity, quantity)
	}

	return s.carts.Update(actor.ID, func(c *entity.Cart) error {
		product, ok := s.catalog.Get(productID)
		if !ok {
			return fmt.Errorf("product %d: %w", productID, entity.ErrProductNotFound)
		}

		existing := c.Quantity(productID)
		if existing+quantity > product.Stock {
			return fmt.Errorf("%w for product %d (available: %d, requested: %d)",
				entity.ErrInsufficientStock, productID, product.Stock, existing+quantity)
		}

		for i := range c.Lines {
			if c.Lines[i].ProductID == productID {
				c.Lines[i].Quantity += quantity
				return nil
			}
		}
		c.Lines = append(c.Lines, entity.CartItem{ProductID: productID, Quantity: quantity})
		return nil
	})
}

// RemoveItem drops a product's line from the actor's cart. Removing an
// absent line is not an error.
func (s *CartService) RemoveItem(ctx context.Context, actor *entity.User, productID int64) error {
	if err := requireUser(actor); err != nil {
		return err
	}

	return s.carts.Update(actor.ID, func(c *entity.Cart) error {
		for i := range c.Lines {
			if c.Lines[i].ProductID == productID {
				c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// Clear empties the actor's cart.
func (s *CartService) Clear(ctx context.Context, actor *entity.User) error {
	if err := requireUser(actor); err != nil {
		return err
	}

	return s.carts.Update(actor.ID, func(c *entity.Cart) error {
		c.Lines = nil
		return nil
	})
}

// Total prices the actor's cart against the current catalog.
func (s *CartService) Total(ctx context.Context, actor *entity.User) (int64, error) {
	if err := requireUser(actor); err != nil {
		return 0, err
	}

	cart := s.carts.Get(actor.ID)
	return cartTotal(cart.Lines, s.catalog)
}

// cartTotal sums price x quantity across lines. It short-circuits on the
// first line whose product is missing from the catalog; no partial sum is
// ever returned.
func cartTotal(lines []entity.CartItem, catalog repository.Catalog) (int64, error) {
	var total int64
	for _, line := range lines {
		product, ok := catalog.Get(line.ProductID)
		if !ok {
			return 0, fmt.Errorf("product %d: %w", line.ProductID, entity.ErrProductNotFound)
		}
		total += product.Price * int64(line.Quantity)
	}
	return total, nil
}
