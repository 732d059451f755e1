package service

import (
	"context"
	"sync"

	"github.com/markstore/backend/internal/entity"
	"github.com/markstore/backend/internal/repository/memory"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *recordingPublisher) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]any, len(p.events))
	copy(out, p.events)
	return out
}

func adminActor() *entity.User {
	return &entity.User{ID: 100, Username: "admin", IsAdmin: true}
}

func shopperActor(id int64) *entity.User {
	return &entity.User{ID: id, Username: "shopper"}
}

func seedCatalog(products ...entity.Product) *memory.Catalog {
	catalog := memory.NewCatalog()
	for _, p := range products {
		catalog.Upsert(p)
	}
	return catalog
}
