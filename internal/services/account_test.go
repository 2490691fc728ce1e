package services

import (
	"context"
	"testing"

	"github.com/chemist-edu/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccountService_CreateRequiresRole(t *testing.T) {
	svc := NewAccountService(newFakeAccountRepo(), nil)

	_, err := svc.Create(context.Background(), types.Account{
		Username: "nobody",
		Email:    "nobody@example.com",
		Name:     "No Role",
	}, "secret")
	assert.ErrorIs(t, err, ErrMissingRole)
}

func TestAccountService_CreateHashesPassword(t *testing.T) {
	svc := NewAccountService(newFakeAccountRepo(), nil)

	created, err := svc.Create(context.Background(), types.Account{
		Username: "admin",
		Email:    "admin@example.com",
		Name:     "Admin",
		RoleName: "ROLE_ADMIN",
	}, "secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret")))
}

func TestAccountService_UpdatePreservesPassword(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := NewAccountService(repo, nil)

	created, err := svc.Create(context.Background(), types.Account{
		Username: "admin",
		Email:    "admin@example.com",
		Name:     "Admin",
		RoleName: "ROLE_ADMIN",
	}, "secret")
	require.NoError(t, err)

	created.Name = "Renamed"
	updated, err := svc.Update(context.Background(), created, "")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("secret")))

	updated, err = svc.Update(context.Background(), updated, "rotated")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("rotated")))
}

func TestAccountService_DeactivateIdempotent(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := NewAccountService(repo, nil)

	created, err := svc.Create(context.Background(), types.Account{
		Username: "admin",
		Email:    "admin@example.com",
		Name:     "Admin",
		RoleName: "ROLE_ADMIN",
	}, "secret")
	require.NoError(t, err)

	first, err := svc.Deactivate(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, first.DeactivatedAt)

	second, err := svc.Deactivate(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, first.DeactivatedAt, second.DeactivatedAt)
}
