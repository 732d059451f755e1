package memory

import (
	"sync"

	"github.com/markstore/backend/internal/entity"
)

// Catalog is the in-memory product store. Products live in a slice so List
// preserves insertion order; an id index keeps lookups O(1).
type Catalog struct {
	mu      sync.RWMutex
	items   []entity.Product
	index   map[int64]int
	nextID  int64
	version uint64
}

func NewCatalog() *Catalog {
	return &Catalog{
		index:  make(map[int64]int),
		nextID: 1,
	}
}

func (c *Catalog) Get(id int64) (entity.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return entity.Product{}, false
	}
	return c.items[i], true
}

func (c *Catalog) List() []entity.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entity.Product, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Upsert(p entity.Product) entity.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p.ID == 0 {
		p.ID = c.nextID
	}
	// The counter is a high-water mark and never goes backwards, so an id
	// freed by Delete is never handed out again.
	if p.ID >= c.nextID {
		c.nextID = p.ID + 1
	}

	if i, ok := c.index[p.ID]; ok {
		c.items[i] = p
	} else {
		c.index[p.ID] = len(c.items)
		c.items = append(c.items, p)
	}
	c.version++
	return p
}

func (c *Catalog) Delete(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[id]
	if !ok {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	delete(c.index, id)
	for j := i; j < len(c.items); j++ {
		c.index[c.items[j].ID] = j
	}
	c.version++
}

func (c *Catalog) AdjustStock(id int64, delta int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[id]
	if !ok {
		return 0, entity.ErrProductNotFound
	}
	next := c.items[i].Stock + delta
	if next < 0 {
		return 0, entity.ErrInsufficientStock
	}
	c.items[i].Stock = next
	c.version++
	return next, nil
}

func (c *Catalog) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}
