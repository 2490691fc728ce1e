package services

import (
	"context"
	"testing"
	"time"

	"github.com/chemist-edu/apiserver/internal/store"
	"github.com/chemist-edu/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newAuthFixture(t *testing.T) (*AuthService, *fakeAccountRepo, *fakeRefreshRepo) {
	t.Helper()
	accounts := newFakeAccountRepo()
	refresh := newFakeRefreshRepo()
	svc := NewAuthService(accounts, refresh, testSecret, 15*time.Minute, 30*24*time.Hour)
	return svc, accounts, refresh
}

func seedAccount(t *testing.T, repo *fakeAccountRepo, username, password string) types.Account {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	account, err := repo.Create(context.Background(), types.Account{
		Username:     username,
		Email:        username + "@example.com",
		Name:         "Test User",
		RoleName:     "ROLE_ADMIN",
		PasswordHash: string(hashed),
	})
	require.NoError(t, err)
	return account
}

func TestAuthService_LoginSuccess(t *testing.T) {
	svc, accounts, refresh := newAuthFixture(t)
	seeded := seedAccount(t, accounts, "admin", "secret")

	pair, account, err := svc.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, account.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Len(t, refresh.tokens, 1)

	subject, err := svc.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, subject)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc, accounts, _ := newAuthFixture(t)
	seedAccount(t, accounts, "admin", "secret")

	_, _, err := svc.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LoginUnknownUser(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), "ghost", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LoginDeactivatedAccount(t *testing.T) {
	svc, accounts, _ := newAuthFixture(t)
	account := seedAccount(t, accounts, "admin", "secret")
	now := time.Now()
	account.DeactivatedAt = &now
	_, err := accounts.Update(context.Background(), account)
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "admin", "secret")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	svc, accounts, refresh := newAuthFixture(t)
	seedAccount(t, accounts, "admin", "secret")

	pair, _, err := svc.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)

	rotated, _, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)
	assert.Len(t, refresh.tokens, 1, "old refresh token must be invalidated")

	// The presented token is spent and cannot be replayed.
	_, _, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RefreshExpiredTokenDeleted(t *testing.T) {
	svc, accounts, refresh := newAuthFixture(t)
	account := seedAccount(t, accounts, "admin", "secret")

	_, err := refresh.Create(context.Background(), store.RefreshToken{
		AccountID: account.ID,
		TokenHash: hashToken("stale-token"),
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	_, _, err = svc.Refresh(context.Background(), "stale-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, refresh.tokens, "expired record must be removed")
}

func TestAuthService_LogoutIdempotent(t *testing.T) {
	svc, accounts, refresh := newAuthFixture(t)
	seedAccount(t, accounts, "admin", "secret")

	pair, _, err := svc.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))
	assert.Empty(t, refresh.tokens)
	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))
}

func TestAuthService_ParseAccessTokenRejectsTampered(t *testing.T) {
	svc, accounts, _ := newAuthFixture(t)
	seedAccount(t, accounts, "admin", "secret")

	pair, _, err := svc.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)

	_, err = ParseAccessToken(pair.AccessToken, []byte("other-secret"))
	assert.Error(t, err)
	_, err = ParseAccessToken(pair.AccessToken+"x", []byte(testSecret))
	assert.Error(t, err)
}
