package memory

import (
	"sort"
	"sync"

	"github.com/markstore/backend/internal/entity"
)

// Ledger is the in-memory order history. Orders are only ever appended or
// relabelled, never removed.
type Ledger struct {
	mu     sync.RWMutex
	orders []entity.Order
	index  map[int64]int
	nextID int64
}

func NewLedger() *Ledger {
	return &Ledger{
		index:  make(map[int64]int),
		nextID: 1,
	}
}

func (l *Ledger) Append(o entity.Order) entity.Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	o.ID = l.nextID
	l.nextID++
	o.Items = copyItems(o.Items)
	l.index[o.ID] = len(l.orders)
	l.orders = append(l.orders, o)
	return o
}

func (l *Ledger) ByUser(userID int64) []entity.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []entity.Order
	for _, o := range l.orders {
		if o.UserID == userID {
			out = append(out, copyOrder(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (l *Ledger) ByID(id int64) (entity.Order, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i, ok := l.index[id]
	if !ok {
		return entity.Order{}, false
	}
	return copyOrder(l.orders[i]), true
}

func (l *Ledger) All() []entity.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]entity.Order, 0, len(l.orders))
	for _, o := range l.orders {
		out = append(out, copyOrder(o))
	}
	return out
}

func (l *Ledger) SetStatus(id int64, status entity.OrderStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[id]
	if !ok {
		return entity.ErrOrderNotFound
	}
	l.orders[i].Status = status
	return nil
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.orders)
}

// copyOrder returns the order with its own items slice, so callers cannot
// reach back into ledger state.
func copyOrder(o entity.Order) entity.Order {
	o.Items = copyItems(o.Items)
	return o
}

func copyItems(items []entity.CartItem) []entity.CartItem {
	out := make([]entity.CartItem, len(items))
	copy(out, items)
	return out
}
