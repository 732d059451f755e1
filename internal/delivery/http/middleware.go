package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/markstore/backend/internal/entity"
)

type contextKey string

const actorKey contextKey = "actor"

// actorFrom returns the signed-in user attached by the auth middleware, or
// nil for guests.
func actorFrom(r *http.Request) *entity.User {
	if u, ok := r.Context().Value(actorKey).(*entity.User); ok {
		return u
	}
	return nil
}

// withActor resolves an optional bearer token and attaches the account to
// the request context. Guests pass through with no actor.
func (h *Handler) withActor(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			next(w, r)
			return
		}

		user, err := h.identity.UserFromToken(r.Context(), token)
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), actorKey, &user)
		next(w, r.WithContext(ctx))
	}
}

// auth requires a signed-in user.
func (h *Handler) auth(next http.HandlerFunc) http.HandlerFunc {
	return h.withActor(func(w http.ResponseWriter, r *http.Request) {
		if actorFrom(r) == nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next(w, r)
	})
}

// admin requires a signed-in admin.
func (h *Handler) admin(next http.HandlerFunc) http.HandlerFunc {
	return h.withActor(func(w http.ResponseWriter, r *http.Request) {
		actor := actorFrom(r)
		if actor == nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		if !actor.IsAdmin {
			http.Error(w, "admin access required", http.StatusForbidden)
			return
		}
		next(w, r)
	})
}

// EnableCORS is a middleware to allow a browser frontend to connect.
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
