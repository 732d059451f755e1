package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/markstore/backend/internal/entity"
	"github.com/markstore/backend/internal/repository"
)

// IdentityService owns accounts, sessions, and roles. Sessions are stateless
// HS256 bearer tokens carrying the user id; the registry is re-read on every
// verification so role changes take effect immediately.
//
// Credentials are stored and compared in the clear, faithfully to the demo
// this reimplements. Do not treat this as an authentication reference.
type IdentityService struct {
	users    repository.Users
	secret   []byte
	tokenTTL time.Duration
}

func NewIdentityService(users repository.Users, secret []byte) *IdentityService {
	return &IdentityService{
		users:    users,
		secret:   secret,
		tokenTTL: 24 * time.Hour,
	}
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Username string
	Password string
	FullName string
	Email    string
	Phone    string
}

// Register creates an account and returns it with a session token.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (entity.User, string, error) {
	username := strings.TrimSpace(in.Username)
	if len(username) < 3 {
		return entity.User{}, "", fmt.Errorf("%w: need at least 3 characters", entity.ErrUsernameTooShort)
	}
	if _, taken := s.users.ByUsername(username); taken {
		return entity.User{}, "", fmt.Errorf("%q: %w", username, entity.ErrUsernameTaken)
	}

	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		fullName = username
	}

	user := s.users.Create(entity.User{
		Username: username,
		Password: in.Password,
		FullName: fullName,
		Email:    in.Email,
		Phone:    in.Phone,
	})
	slog.Info("Service: User registered", "user_id", user.ID, "username", user.Username)

	token, err := s.mintToken(user)
	if err != nil {
		return entity.User{}, "", err
	}
	return user, token, nil
}

// Login checks the credential and returns the user with a session token.
func (s *IdentityService) Login(ctx context.Context, username, password string) (entity.User, string, error) {
	user, ok := s.users.ByUsername(strings.TrimSpace(username))
	if !ok || user.Password != password {
		return entity.User{}, "", entity.ErrInvalidCredentials
	}
	slog.Info("Service: User logged in", "user_id", user.ID, "username", user.Username)

	token, err := s.mintToken(user)
	if err != nil {
		return entity.User{}, "", err
	}
	return user, token, nil
}

type sessionClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

func (s *IdentityService) mintToken(user entity.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Admin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// UserFromToken resolves a bearer token to the current account. The admin
// flag comes from the registry, not the token, so a revoked role cannot be
// replayed.
func (s *IdentityService) UserFromToken(ctx context.Context, tokenString string) (entity.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return entity.User{}, entity.ErrUnauthorized
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok {
		return entity.User{}, entity.ErrUnauthorized
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return entity.User{}, entity.ErrUnauthorized
	}

	user, ok := s.users.Get(id)
	if !ok {
		return entity.User{}, entity.ErrUnauthorized
	}
	return user, nil
}

// ProfileInput is the self-service profile form. Empty full name keeps the
// existing one.
type ProfileInput struct {
	FullName string
	Email    string
	Phone    string
}

// UpdateProfile edits the actor's own profile fields.
func (s *IdentityService) UpdateProfile(ctx context.Context, actor *entity.User, in ProfileInput) (entity.User, error) {
	if err := requireUser(actor); err != nil {
		return entity.User{}, err
	}

	user, ok := s.users.Get(actor.ID)
	if !ok {
		return entity.User{}, fmt.Errorf("user %d: %w", actor.ID, entity.ErrUserNotFound)
	}

	if name := strings.TrimSpace(in.FullName); name != "" {
		user.FullName = name
	}
	user.Email = in.Email
	user.Phone = in.Phone

	if err := s.users.Save(user); err != nil {
		return entity.User{}, fmt.Errorf("failed to save profile: %w", err)
	}
	return user, nil
}

// Users lists all accounts, admin only.
func (s *IdentityService) Users(ctx context.Context, actor *entity.User) ([]entity.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.users.List(), nil
}

// SetRole grants or revokes admin, admin only. Admins cannot demote
// themselves, so the store always keeps at least the acting admin.
func (s *IdentityService) SetRole(ctx context.Context, actor *entity.User, userID int64, isAdmin bool) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if userID == actor.ID && !isAdmin {
		return fmt.Errorf("cannot revoke your own admin role: %w", entity.ErrUnauthorized)
	}

	user, ok := s.users.Get(userID)
	if !ok {
		return fmt.Errorf("user %d: %w", userID, entity.ErrUserNotFound)
	}
	user.IsAdmin = isAdmin
	slog.Info("Service: User role updated", "user_id", userID, "is_admin", isAdmin)
	return s.users.Save(user)
}

// ResetPassword sets a user's password, admin only.
func (s *IdentityService) ResetPassword(ctx context.Context, actor *entity.User, userID int64, password string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if len(password) < 4 {
		return fmt.Errorf("%w: need at least 4 characters", entity.ErrPasswordTooShort)
	}

	user, ok := s.users.Get(userID)
	if !ok {
		return fmt.Errorf("user %d: %w", userID, entity.ErrUserNotFound)
	}
	user.Password = password
	return s.users.Save(user)
}

// DeleteUser removes an account, admin only. Admins cannot delete
// themselves. The user's orders stay in the ledger for the history views.
func (s *IdentityService) DeleteUser(ctx context.Context, actor *entity.User, userID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if userID == actor.ID {
		return fmt.Errorf("cannot delete your own account: %w", entity.ErrUnauthorized)
	}

	if err := s.users.Delete(userID); err != nil {
		return fmt.Errorf("user %d: %w", userID, err)
	}
	slog.Info("Service: User deleted", "user_id", userID)
	return nil
}
