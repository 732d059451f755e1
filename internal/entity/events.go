package entity

import "time"

// Event is a domain event published after a state change.
type Event interface {
	EventType() string
}

// OrderPlaced is emitted once per successful checkout, after stock has been
// decremented and the order appended to the ledger.
type OrderPlaced struct {
	OrderID  int64      `json:"order_id"`
	UserID   int64      `json:"user_id"`
	Items    []CartItem `json:"items"`
	Total    int64      `json:"total"`
	PlacedAt time.Time  `json:"placed_at"`
}

func (e OrderPlaced) EventType() string { return "OrderPlaced" }

// ProductStockUpdated is emitted when an admin edit changes a product's
// stock level outside of checkout.
type ProductStockUpdated struct {
	ProductID int64 `json:"product_id"`
	NewStock  int   `json:"new_stock"`
}

func (e ProductStockUpdated) EventType() string { return "ProductStockUpdated" }
