package memory

import (
	"sync"

	"github.com/markstore/backend/internal/entity"
)

// Carts holds one cart per user. Update gives callers a read-modify-write
// cycle under the store's lock, which is what keeps a checkout's
// snapshot-validate-clear sequence atomic against concurrent line edits.
type Carts struct {
	mu    sync.Mutex
	carts map[int64]*entity.Cart
}

func NewCarts() *Carts {
	return &Carts{carts: make(map[int64]*entity.Cart)}
}

func (s *Carts) Get(userID int64) entity.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[userID]
	if !ok {
		return entity.Cart{UserID: userID}
	}
	return copyCart(c)
}

func (s *Carts) Update(userID int64, fn func(c *entity.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[userID]
	if !ok {
		c = &entity.Cart{UserID: userID}
		s.carts[userID] = c
	}

	// fn works on a scratch copy; the stored cart only changes on success.
	scratch := copyCart(c)
	if err := fn(&scratch); err != nil {
		return err
	}
	*c = scratch
	return nil
}

func copyCart(c *entity.Cart) entity.Cart {
	out := entity.Cart{UserID: c.UserID}
	out.Lines = make([]entity.CartItem, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}
