package entity

import (
	"time"
)

// Product is a catalog entry. Price is in minor currency units so totals
// stay exact integer arithmetic.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       int64   `json:"price"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
}

// CartItem is one line of a cart: a product reference and how many units.
// The same type is snapshotted into orders at checkout.
type CartItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Cart holds a user's uncommitted lines, at most one per product, in the
// order they were first added.
type Cart struct {
	UserID int64      `json:"user_id"`
	Lines  []CartItem `json:"lines"`
}

// Quantity returns the quantity currently carried for a product, or 0.
func (c *Cart) Quantity(productID int64) int {
	for _, line := range c.Lines {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

// OrderStatus labels where an order is in its lifecycle. Admins may set any
// label in any sequence, so the constants below are the common values, not a
// closed set.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
)

// Order is an immutable record of a committed cart. Items and Total are
// fixed at commit time; later catalog edits never touch them. Only Status
// changes afterwards.
type Order struct {
	ID           int64       `json:"id"`
	UserID       int64       `json:"user_id"`
	Items        []CartItem  `json:"items"`
	CreatedAt    time.Time   `json:"created_at"`
	Status       OrderStatus `json:"status"`
	Total        int64       `json:"total"`
	Address      string      `json:"address"`
	DeliveryDate time.Time   `json:"delivery_date"`
}

// User is an account in the store. Password is stored and compared in the
// clear, matching the demo it reimplements; hardening is out of scope.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
	IsAdmin  bool   `json:"is_admin"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}
