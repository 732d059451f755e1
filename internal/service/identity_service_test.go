package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markstore/backend/internal/entity"
	"github.com/markstore/backend/internal/repository/memory"
)

func newIdentityService() (*IdentityService, *memory.Users) {
	users := memory.NewUsers()
	return NewIdentityService(users, []byte("test-secret")), users
}

func TestIdentity_RegisterAndLogin(t *testing.T) {
	svc, _ := newIdentityService()
	ctx := context.Background()

	user, token, err := svc.Register(ctx, RegisterInput{Username: "ali", Password: "Ali123", Email: "ali@example.com"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "ali", user.Username)
	assert.Equal(t, "ali", user.FullName, "full name defaults to the username")
	assert.False(t, user.IsAdmin)
	assert.NotEmpty(t, token)

	loggedIn, loginToken, err := svc.Login(ctx, "ali", "Ali123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, loginToken)
}

func TestIdentity_RegisterRules(t *testing.T) {
	svc, _ := newIdentityService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{Username: "al", Password: "x"})
	assert.ErrorIs(t, err, entity.ErrUsernameTooShort)

	_, _, err = svc.Register(ctx, RegisterInput{Username: "  a  ", Password: "x"})
	assert.ErrorIs(t, err, entity.ErrUsernameTooShort, "username is trimmed before the length check")

	_, _, err = svc.Register(ctx, RegisterInput{Username: "ali", Password: "x"})
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, RegisterInput{Username: "ali", Password: "y"})
	assert.ErrorIs(t, err, entity.ErrUsernameTaken)
}

func TestIdentity_LoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newIdentityService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{Username: "ali", Password: "Ali123"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ali", "wrong")
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "Ali123")
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
}

func TestIdentity_TokenRoundTrip(t *testing.T) {
	svc, _ := newIdentityService()
	ctx := context.Background()

	user, token, err := svc.Register(ctx, RegisterInput{Username: "ali", Password: "Ali123"})
	require.NoError(t, err)

	resolved, err := svc.UserFromToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, "ali", resolved.Username)
}

func TestIdentity_TokenRejections(t *testing.T) {
	svc, users := newIdentityService()
	ctx := context.Background()

	_, token, err := svc.Register(ctx, RegisterInput{Username: "ali", Password: "Ali123"})
	require.NoError(t, err)

	_, err = svc.UserFromToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, entity.ErrUnauthorized)

	other := NewIdentityService(users, []byte("another-secret"))
	_, err = other.UserFromToken(ctx, token)
	assert.ErrorIs(t, err, entity.ErrUnauthorized, "a token signed with a different secret is rejected")
}

func TestIdentity_RoleChangeReflectsOnNextVerification(t *testing.T) {
	svc, users := newIdentityService()
	ctx := context.Background()

	admin := users.Create(entity.User{Username: "admin", Password: "Admin123", IsAdmin: true})
	user, token, err := svc.Register(ctx, RegisterInput{Username: "ali", Password: "Ali123"})
	require.NoError(t, err)

	resolved, err := svc.UserFromToken(ctx, token)
	require.NoError(t, err)
	assert.False(t, resolved.IsAdmin)

	// Promotion applies to the existing token immediately.
	require.NoError(t, svc.SetRole(ctx, &admin, user.ID, true))
	resolved, err = svc.UserFromToken(ctx, token)
	require.NoError(t, err)
	assert.True(t, resolved.IsAdmin)
}

func TestIdentity_TokenForDeletedUserIsDead(t *testing.T) {
	svc, users := newIdentityService()
	ctx := context.Background()

	admin := users.Create(entity.User{Username: "admin", Password: "Admin123", IsAdmin: true})
	user, token, err := svc.Register(ctx, RegisterInput{Username: "ali", Password: "Ali123"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, &admin, user.ID))

	_, err = svc.UserFromToken(ctx, token)
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}

func TestIdentity_UpdateProfile(t *testing.T) {
	svc, _ := newIdentityService()
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{Username: "ali", Password: "Ali123", FullName: "Ali A."})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, &user, ProfileInput{Email: "new@example.com", Phone: "555-0101"})
	require.NoError(t, err)
	assert.Equal(t, "Ali A.", updated.FullName, "empty full name keeps the existing one")
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "555-0101", updated.Phone)

	updated, err = svc.UpdateProfile(ctx, &user, ProfileInput{FullName: "Ali B."})
	require.NoError(t, err)
	assert.Equal(t, "Ali B.", updated.FullName)
}

func TestIdentity_AdminGuards(t *testing.T) {
	svc, users := newIdentityService()
	ctx := context.Background()

	admin := users.Create(entity.User{Username: "admin", Password: "Admin123", IsAdmin: true})
	shopper := users.Create(entity.User{Username: "ali", Password: "Ali123"})

	_, err := svc.Users(ctx, &shopper)
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
	assert.ErrorIs(t, svc.SetRole(ctx, &shopper, admin.ID, false), entity.ErrUnauthorized)
	assert.ErrorIs(t, svc.ResetPassword(ctx, &shopper, admin.ID, "abcd"), entity.ErrUnauthorized)
	assert.ErrorIs(t, svc.DeleteUser(ctx, &shopper, admin.ID), entity.ErrUnauthorized)

	// Admins cannot demote or delete themselves.
	assert.ErrorIs(t, svc.SetRole(ctx, &admin, admin.ID, false), entity.ErrUnauthorized)
	assert.ErrorIs(t, svc.DeleteUser(ctx, &admin, admin.ID), entity.ErrUnauthorized)

	list, err := svc.Users(ctx, &admin)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestIdentity_ResetPassword(t *testing.T) {
	svc, users := newIdentityService()
	ctx := context.Background()

	admin := users.Create(entity.User{Username: "admin", Password: "Admin123", IsAdmin: true})
	shopper := users.Create(entity.User{Username: "ali", Password: "Ali123"})

	assert.ErrorIs(t, svc.ResetPassword(ctx, &admin, shopper.ID, "abc"), entity.ErrPasswordTooShort)
	assert.ErrorIs(t, svc.ResetPassword(ctx, &admin, 99, "abcd"), entity.ErrUserNotFound)

	require.NoError(t, svc.ResetPassword(ctx, &admin, shopper.ID, "NewPass1"))

	_, _, err := svc.Login(ctx, "ali", "Ali123")
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "ali", "NewPass1")
	assert.NoError(t, err)
}
