package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chemist-edu/apiserver/internal/services"
	"github.com/chemist-edu/apiserver/internal/store"
	"github.com/chemist-edu/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memAccountRepo struct {
	accounts map[int]types.Account
}

func (r *memAccountRepo) GetByID(ctx context.Context, id int) (types.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return types.Account{}, store.ErrNotFound
	}
	return account, nil
}

func (r *memAccountRepo) GetByUsername(ctx context.Context, username string) (types.Account, error) {
	for _, account := range r.accounts {
		if account.Username == username {
			return account, nil
		}
	}
	return types.Account{}, store.ErrNotFound
}

func (r *memAccountRepo) List(ctx context.Context, offset, limit int) ([]types.Account, int, error) {
	return nil, 0, nil
}

func (r *memAccountRepo) Create(ctx context.Context, account types.Account) (types.Account, error) {
	account.ID = len(r.accounts) + 1
	r.accounts[account.ID] = account
	return account, nil
}

func (r *memAccountRepo) Update(ctx context.Context, account types.Account) (types.Account, error) {
	r.accounts[account.ID] = account
	return account, nil
}

func (r *memAccountRepo) Delete(ctx context.Context, id int) error {
	delete(r.accounts, id)
	return nil
}

type memRefreshRepo struct {
	tokens map[string]store.RefreshToken
}

func (r *memRefreshRepo) Create(ctx context.Context, token store.RefreshToken) (store.RefreshToken, error) {
	token.ID = len(r.tokens) + 1
	r.tokens[token.TokenHash] = token
	return token, nil
}

func (r *memRefreshRepo) GetByHash(ctx context.Context, tokenHash string) (store.RefreshToken, error) {
	token, ok := r.tokens[tokenHash]
	if !ok {
		return store.RefreshToken{}, store.ErrNotFound
	}
	return token, nil
}

func (r *memRefreshRepo) DeleteByHash(ctx context.Context, tokenHash string) error {
	if _, ok := r.tokens[tokenHash]; !ok {
		return store.ErrNotFound
	}
	delete(r.tokens, tokenHash)
	return nil
}

func (r *memRefreshRepo) DeleteByAccount(ctx context.Context, accountID int) error {
	for hash, token := range r.tokens {
		if token.AccountID == accountID {
			delete(r.tokens, hash)
		}
	}
	return nil
}

func newAuthTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	accounts := &memAccountRepo{accounts: map[int]types.Account{
		1: {
			ID:           1,
			Username:     "admin",
			Email:        "admin@example.com",
			Name:         "Admin",
			RoleName:     "ROLE_ADMIN",
			PasswordHash: string(hashed),
		},
	}}
	refresh := &memRefreshRepo{tokens: make(map[string]store.RefreshToken)}
	authService := services.NewAuthService(accounts, refresh, "test-secret", 15*time.Minute, time.Hour)

	router := chi.NewRouter()
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, authService)
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func login(t *testing.T, srv *httptest.Server) AuthResponse {
	t.Helper()
	resp := postJSON(t, srv.URL+"/auth/login", LoginRequest{Username: "admin", Password: "secret"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var auth AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&auth))
	return auth
}

func TestAuthEndpoints_Login(t *testing.T) {
	srv := newAuthTestServer(t)

	auth := login(t, srv)
	assert.NotEmpty(t, auth.AccessToken)
	assert.NotEmpty(t, auth.RefreshToken)
	assert.Equal(t, "admin", auth.Account.Username)
}

func TestAuthEndpoints_LoginBadCredentials(t *testing.T) {
	srv := newAuthTestServer(t)

	resp := postJSON(t, srv.URL+"/auth/login", LoginRequest{Username: "admin", Password: "wrong"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthEndpoints_MeRequiresToken(t *testing.T) {
	srv := newAuthTestServer(t)

	resp, err := http.Get(srv.URL + "/auth/me")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthEndpoints_Me(t *testing.T) {
	srv := newAuthTestServer(t)
	auth := login(t, srv)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+auth.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var account types.Account
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&account))
	assert.Equal(t, "admin", account.Username)
	assert.Equal(t, "ROLE_ADMIN", account.RoleName)
}

func TestAuthEndpoints_RefreshRotates(t *testing.T) {
	srv := newAuthTestServer(t)
	auth := login(t, srv)

	resp := postJSON(t, srv.URL+"/auth/refresh", RefreshRequest{RefreshToken: auth.RefreshToken})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rotated AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rotated))
	assert.NotEqual(t, auth.RefreshToken, rotated.RefreshToken)

	// The original token is spent.
	replay := postJSON(t, srv.URL+"/auth/refresh", RefreshRequest{RefreshToken: auth.RefreshToken})
	defer replay.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, replay.StatusCode)
}

func TestAuthEndpoints_Logout(t *testing.T) {
	srv := newAuthTestServer(t)
	auth := login(t, srv)

	resp := postJSON(t, srv.URL+"/auth/logout", RefreshRequest{RefreshToken: auth.RefreshToken})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Logout is idempotent; an unknown token still succeeds.
	again := postJSON(t, srv.URL+"/auth/logout", RefreshRequest{RefreshToken: auth.RefreshToken})
	defer again.Body.Close()
	assert.Equal(t, http.StatusNoContent, again.StatusCode)

	refreshResp := postJSON(t, srv.URL+"/auth/refresh", RefreshRequest{RefreshToken: auth.RefreshToken})
	defer refreshResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, refreshResp.StatusCode)
}
