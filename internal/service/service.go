// Package service holds the store's business rules. Each service owns one
// concern and is handed its stores and collaborators at construction; the
// acting user is passed per call so delivery layers stay free to resolve
// identity however they like.
package service

import (
	"github.com/markstore/backend/internal/entity"
)

// requireUser gates operations that need a signed-in actor.
func requireUser(actor *entity.User) error {
	if actor == nil {
		return entity.ErrUnauthorized
	}
	return nil
}

// requireAdmin gates admin-only operations.
func requireAdmin(actor *entity.User) error {
	if actor == nil || !actor.IsAdmin {
		return entity.ErrUnauthorized
	}
	return nil
}
