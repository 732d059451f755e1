package repository

import (
	"github.com/markstore/backend/internal/entity"
)

// Catalog owns the product set and is the only place stock is mutated.
type Catalog interface {
	// Get returns the product with the given id.
	Get(id int64) (entity.Product, bool)
	// List returns all products in insertion order.
	List() []entity.Product
	// Upsert replaces the product with the same id, or inserts it. An id of
	// zero allocates a fresh one; ids are never reused within a process
	// lifetime, even after deletions.
	Upsert(p entity.Product) entity.Product
	// Delete removes the product if present. Absent ids are not an error.
	Delete(id int64)
	// AdjustStock applies a delta to a product's stock and returns the new
	// level. It fails with entity.ErrInsufficientStock if the delta would
	// drive stock below zero, leaving the level unchanged.
	AdjustStock(id int64, delta int) (int, error)
	// Version increments on every mutation. Readers use it to detect that a
	// derived computation is stale.
	Version() uint64
}

// Ledger is the append-only collection of committed orders.
type Ledger interface {
	// Append stores the order, assigning the next id in strict commit order,
	// and returns the stored record.
	Append(o entity.Order) entity.Order
	// ByUser returns a user's orders, most recent first.
	ByUser(userID int64) []entity.Order
	// ByID returns the order with the given id.
	ByID(id int64) (entity.Order, bool)
	// All returns every order in append order.
	All() []entity.Order
	// SetStatus relabels an order. Any label may follow any other.
	SetStatus(id int64, status entity.OrderStatus) error
	// Len reports how many orders have been committed.
	Len() int
}

// Carts holds the per-user uncommitted carts.
type Carts interface {
	// Get returns a copy of the user's cart, empty if none exists yet.
	Get(userID int64) entity.Cart
	// Update applies fn to the user's cart under the store's lock. If fn
	// returns an error the cart is left unchanged.
	Update(userID int64, fn func(c *entity.Cart) error) error
}

// Users is the account registry.
type Users interface {
	Get(id int64) (entity.User, bool)
	ByUsername(username string) (entity.User, bool)
	List() []entity.User
	// Create assigns a fresh id and stores the user.
	Create(u entity.User) entity.User
	// Save replaces an existing user by id.
	Save(u entity.User) error
	Delete(id int64) error
}
