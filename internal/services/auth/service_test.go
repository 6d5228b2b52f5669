package auth

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/repositories/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T, store *memory.Store, email, password, role string) *models.User {
	t.Helper()
	hashed, err := HashPassword(password)
	require.NoError(t, err)
	u := &models.User{Email: email, Name: email, Password: hashed, Role: role}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func TestLoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seller := newUser(t, store, "seller@example.com", "s3cret!pass", models.RoleSeller)
	svc := NewService(store.Users(), "test-secret", time.Hour)

	user, token, err := svc.Login(ctx, " Seller@Example.com ", "s3cret!pass")
	require.NoError(t, err)
	assert.Equal(t, seller.ID, user.ID)
	require.NotEmpty(t, token)

	claims, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, seller.ID, claims.UserID)
	assert.Equal(t, models.RoleSeller, claims.Role)

	// Suspension bumps the token version, so the old token stops working.
	require.NoError(t, store.Users().UpdateStatus(ctx, seller.ID, models.UserStatusSuspended, "strikes"))
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, _, err = svc.Login(ctx, "seller@example.com", "s3cret!pass")
	assert.ErrorIs(t, err, ErrAccountSuspended)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	newUser(t, store, "buyer@example.com", "right-password", models.RoleBuyer)
	svc := NewService(store.Users(), "test-secret", time.Hour)

	_, _, err := svc.Login(ctx, "buyer@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "right-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_RejectsGarbage(t *testing.T) {
	svc := NewService(memory.NewStore().Users(), "test-secret", time.Hour)
	_, err := svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
