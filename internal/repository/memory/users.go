package memory

import (
	"sync"

	"github.com/markstore/backend/internal/entity"
)

// Users is the in-memory account registry.
type Users struct {
	mu     sync.RWMutex
	users  []entity.User
	index  map[int64]int
	nextID int64
}

func NewUsers() *Users {
	return &Users{
		index:  make(map[int64]int),
		nextID: 1,
	}
}

func (s *Users) Get(id int64) (entity.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return entity.User{}, false
	}
	return s.users[i], true
}

func (s *Users) ByUsername(username string) (entity.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, true
		}
	}
	return entity.User{}, false
}

func (s *Users) List() []entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *Users) Create(u entity.User) entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.ID = s.nextID
	s.nextID++
	s.index[u.ID] = len(s.users)
	s.users = append(s.users, u)
	return u
}

func (s *Users) Save(u entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[u.ID]
	if !ok {
		return entity.ErrUserNotFound
	}
	s.users[i] = u
	return nil
}

func (s *Users) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return entity.ErrUserNotFound
	}
	s.users = append(s.users[:i], s.users[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.users); j++ {
		s.index[s.users[j].ID] = j
	}
	return nil
}
