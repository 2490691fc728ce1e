package session

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/chemist-edu/apiserver/internal/logging"
	"github.com/chemist-edu/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthAPI substitutes the remote auth surface. Function hooks, when
// set, take precedence over the canned results.
type fakeAuthAPI struct {
	loginPair    TokenPair
	loginAccount types.Account
	loginErr     error
	loginFn      func(ctx context.Context, username, password string) (TokenPair, types.Account, error)
	loginCalls   int

	refreshPair    TokenPair
	refreshAccount types.Account
	refreshErr     error
	refreshCalls   int

	meAccount types.Account
	meErr     error
	meCalls   int

	logoutErr   error
	logoutCalls int
}

func (f *fakeAuthAPI) Login(ctx context.Context, username, password string) (TokenPair, types.Account, error) {
	f.loginCalls++
	if f.loginFn != nil {
		return f.loginFn(ctx, username, password)
	}
	return f.loginPair, f.loginAccount, f.loginErr
}

func (f *fakeAuthAPI) Refresh(ctx context.Context, refreshToken string) (TokenPair, types.Account, error) {
	f.refreshCalls++
	return f.refreshPair, f.refreshAccount, f.refreshErr
}

func (f *fakeAuthAPI) Logout(ctx context.Context, refreshToken string) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAuthAPI) Me(ctx context.Context, accessToken string) (types.Account, error) {
	f.meCalls++
	return f.meAccount, f.meErr
}

type managerFixture struct {
	db     *sql.DB
	api    *fakeAuthAPI
	tokens *TokenStore
	cache  *AccountCache
}

func newFixture(t *testing.T) *managerFixture {
	t.Helper()
	db := setupDB(t)
	repo := NewMetadataRepository(db)
	return &managerFixture{
		db:     db,
		api:    &fakeAuthAPI{},
		tokens: NewTokenStore(repo, logging.NopLogger{}),
		cache:  NewAccountCache(repo, logging.NopLogger{}),
	}
}

func (f *managerFixture) manager(ctx context.Context) *Manager {
	return NewManager(ctx, f.api, f.tokens, f.cache, logging.NopLogger{})
}

func TestManager_InitializeFastPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.tokens.SetTokens(ctx, "access-1", "refresh-1")
	f.cache.Store(ctx, validAccount())

	m := f.manager(ctx)
	assert.Equal(t, StateInitializing, m.State())

	require.NoError(t, m.Initialize(ctx))
	assert.Equal(t, StateAuthenticated, m.State())
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "access-1", m.AccessToken())
	assert.Zero(t, f.api.meCalls, "fast path must not hit the network")
	assert.Zero(t, f.api.refreshCalls)
}

func TestManager_InitializeEmptyStores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m := f.manager(ctx)
	require.NoError(t, m.Initialize(ctx))
	assert.Equal(t, StateUnauthenticated, m.State())
	assert.False(t, m.IsAuthenticated())
	assert.Equal(t, "", m.AccessToken())
}

func TestManager_InitializeFetchesAccountWhenCacheMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.tokens.SetTokens(ctx, "access-1", "refresh-1")
	f.api.meAccount = validAccount()

	m := f.manager(ctx)
	require.NoError(t, m.Initialize(ctx))
	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, 1, f.api.meCalls)

	account, ok := m.Account()
	require.True(t, ok)
	assert.Equal(t, validAccount(), account)

	cached, ok := f.cache.Get(ctx)
	require.True(t, ok, "fetched account must be written through")
	assert.Equal(t, validAccount(), cached)
}

func TestManager_InitializeFallsBackToRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.tokens.SetTokens(ctx, "expired", "refresh-1")
	f.api.meErr = ErrUnauthorized
	f.api.refreshPair = TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}
	f.api.refreshAccount = validAccount()

	m := f.manager(ctx)
	require.NoError(t, m.Initialize(ctx))
	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, "access-2", m.AccessToken())
	assert.Equal(t, "access-2", f.tokens.AccessToken(ctx), "rotated tokens must be persisted")
	assert.Equal(t, "refresh-2", f.tokens.RefreshToken(ctx))
}

func TestManager_InitializeFailureClearsEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.tokens.SetTokens(ctx, "expired", "refresh-1")
	f.api.meErr = ErrUnauthorized
	f.api.refreshErr = errors.New("refresh token expired")

	m := f.manager(ctx)
	err := m.Initialize(ctx)
	require.Error(t, err)

	assert.Equal(t, StateError, m.State())
	assert.False(t, m.IsAuthenticated())
	assert.Equal(t, "refresh token expired", m.Err())
	assert.Equal(t, "", m.AccessToken())
	assert.Equal(t, "", f.tokens.AccessToken(ctx))
	assert.False(t, f.cache.Exists(ctx))
}

func TestManager_InitializeRunsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.tokens.SetTokens(ctx, "access-1", "refresh-1")
	f.api.meAccount = validAccount()

	m := f.manager(ctx)
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.Initialize(ctx))
	assert.Equal(t, 1, f.api.meCalls, "boot verification must not re-run")
}

func TestManager_LoginSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.loginPair = TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}
	f.api.loginAccount = validAccount()

	m := f.manager(ctx)
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.Login(ctx, "nodira", "secret"))

	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, "access-1", m.AccessToken())
	assert.Equal(t, "access-1", f.tokens.AccessToken(ctx))
	cached, ok := f.cache.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, validAccount(), cached)
}

func TestManager_LoginFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.loginErr = errors.New("invalid credentials")

	m := f.manager(ctx)
	require.NoError(t, m.Initialize(ctx))
	err := m.Login(ctx, "nodira", "wrong")
	require.Error(t, err)

	assert.Equal(t, StateError, m.State())
	assert.False(t, m.IsAuthenticated())
	assert.Equal(t, "invalid credentials", m.Err())
	assert.Equal(t, "", m.AccessToken())
}

func TestManager_AuthenticatedImpliesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.loginPair = TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}
	f.api.loginAccount = validAccount()

	m := f.manager(ctx)
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.Login(ctx, "nodira", "secret"))

	// Walk every reachable mutation and re-check the invariant.
	checks := []func(){
		func() { _ = m.Refresh(ctx) },
		func() { m.SetAccount(ctx, validAccount()) },
		func() { m.Logout(ctx) },
	}
	f.api.refreshPair = TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}
	f.api.refreshAccount = validAccount()
	for _, step := range checks {
		step()
		if m.IsAuthenticated() {
			assert.NotEmpty(t, m.AccessToken())
		}
	}
}

func TestManager_RefreshFailureClearsEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.loginPair = TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}
	f.api.loginAccount = validAccount()

	m := f.manager(ctx)
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.Login(ctx, "nodira", "secret"))

	f.api.refreshErr = errors.New("expired")
	err := m.Refresh(ctx)
	require.Error(t, err)

	assert.False(t, m.IsAuthenticated())
	assert.Equal(t, "expired", m.Err())
	assert.Equal(t, "", m.AccessToken())
	_, ok := m.Account()
	assert.False(t, ok)
	assert.Equal(t, "", f.tokens.AccessToken(ctx))
	assert.Equal(t, "", f.tokens.RefreshToken(ctx))
	assert.False(t, f.cache.Exists(ctx))
}

func TestManager_RefreshRotatesTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.loginPair = TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}
	f.api.loginAccount = validAccount()

	m := f.manager(ctx)
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.Login(ctx, "nodira", "secret"))

	f.api.refreshPair = TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}
	f.api.refreshAccount = validAccount()
	require.NoError(t, m.Refresh(ctx))

	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, "access-2", m.AccessToken())
	assert.Equal(t, "refresh-2", f.tokens.RefreshToken(ctx))
}

func TestManager_LogoutIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.loginPair = TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}
	f.api.loginAccount = validAccount()

	m := f.manager(ctx)
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.Login(ctx, "nodira", "secret"))

	m.Logout(ctx)
	first := m.State()
	m.Logout(ctx)

	assert.Equal(t, first, m.State())
	assert.Equal(t, StateUnauthenticated, m.State())
	assert.Equal(t, "", m.Err())
	assert.Equal(t, "", m.AccessToken())
	assert.Equal(t, "", f.tokens.AccessToken(ctx))
	assert.False(t, f.cache.Exists(ctx))
	assert.Equal(t, 1, f.api.logoutCalls, "second logout has no token to revoke")
}

func TestManager_LogoutCancelsInFlightLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	f.api.loginFn = func(ctx context.Context, username, password string) (TokenPair, types.Account, error) {
		close(started)
		<-release
		return TokenPair{AccessToken: "late", RefreshToken: "late"}, validAccount(), nil
	}

	m := f.manager(ctx)
	require.NoError(t, m.Initialize(ctx))

	done := make(chan error, 1)
	go func() { done <- m.Login(ctx, "nodira", "secret") }()

	<-started
	m.Logout(ctx)
	close(release)

	err := <-done
	require.ErrorIs(t, err, ErrSuperseded)
	assert.False(t, m.IsAuthenticated(), "a late login response must not resurrect the session")
	assert.Equal(t, "", m.AccessToken())
	assert.Equal(t, "", f.tokens.AccessToken(ctx))
}

func TestManager_SetAccountDoesNotTouchTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.loginPair = TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}
	f.api.loginAccount = validAccount()

	m := f.manager(ctx)
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.Login(ctx, "nodira", "secret"))

	replacement := validAccount()
	replacement.Name = "Renamed"
	m.SetAccount(ctx, replacement)

	account, ok := m.Account()
	require.True(t, ok)
	assert.Equal(t, "Renamed", account.Name)
	assert.Equal(t, "access-1", m.AccessToken())
	assert.Equal(t, StateAuthenticated, m.State())

	cached, ok := f.cache.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "Renamed", cached.Name)
}

func TestManager_SetAccountIgnoresInvalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.loginPair = TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}
	f.api.loginAccount = validAccount()

	m := f.manager(ctx)
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.Login(ctx, "nodira", "secret"))

	m.SetAccount(ctx, types.Account{})
	account, ok := m.Account()
	require.True(t, ok)
	assert.Equal(t, validAccount(), account)
}
