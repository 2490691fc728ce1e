package session

import (
	"context"
	"errors"
	"sync"

	"github.com/chemist-edu/apiserver/internal/logging"
	"github.com/chemist-edu/apiserver/types"
)

// ErrSuperseded is returned when an in-flight login or refresh attempt
// finished after a newer attempt or a logout invalidated it. The
// result was discarded.
var ErrSuperseded = errors.New("attempt superseded")

// Manager owns the in-memory session and is its only writer. Every
// transition that touches the account or the token pair writes through
// to the durable stores inside the same transition, so memory and
// storage cannot drift apart.
//
// Each asynchronous attempt (login, refresh, boot verification) is
// stamped with a generation number at dispatch time. Logout and newer
// attempts bump the generation, so a late network response can never
// resurrect a session that was torn down while it was in flight.
type Manager struct {
	api    AuthAPI
	tokens *TokenStore
	cache  *AccountCache
	logger logging.Logger

	mu           sync.Mutex
	state        State
	account      types.Account
	hasAccount   bool
	accessToken  string
	refreshToken string
	lastError    string
	initialized  bool
	generation   uint64
}

// NewManager builds a Manager and synchronously rehydrates the token
// pair and cached account. The session starts Initializing and is not
// authenticated until Initialize verifies what was rehydrated.
func NewManager(ctx context.Context, api AuthAPI, tokens *TokenStore, cache *AccountCache, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	m := &Manager{
		api:    api,
		tokens: tokens,
		cache:  cache,
		logger: logger,
		state:  StateInitializing,
	}
	m.accessToken = tokens.AccessToken(ctx)
	m.refreshToken = tokens.RefreshToken(ctx)
	m.account, m.hasAccount = cache.Get(ctx)
	return m
}

// Initialize runs the one-time boot verification. When both a token
// and a valid cached account were rehydrated, the session completes on
// the fast path without a network call. A token without a usable
// account triggers an account fetch, falling back to a refresh when
// the access token is rejected. Initialize is a no-op after the first
// call; the boot sequence is never re-entered.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return nil
	}
	m.lastError = ""
	gen := m.nextGenerationLocked()

	// Fast path: nothing to verify over the network.
	if m.accessToken != "" && m.hasAccount {
		m.state = StateAuthenticated
		m.initialized = true
		m.mu.Unlock()
		return nil
	}
	if m.accessToken == "" && m.refreshToken == "" {
		m.state = StateUnauthenticated
		m.initialized = true
		m.mu.Unlock()
		return nil
	}
	accessToken := m.accessToken
	refreshToken := m.refreshToken
	m.mu.Unlock()

	if accessToken != "" {
		account, err := m.api.Me(ctx, accessToken)
		if err == nil && Validate(account) {
			return m.finishInitialization(ctx, gen, TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, account, false)
		}
		if err != nil && !errors.Is(err, ErrUnauthorized) {
			return m.failInitialization(ctx, gen, err)
		}
		// Access token rejected or account unusable; fall through to
		// the refresh path.
	}

	if refreshToken == "" {
		return m.failInitialization(ctx, gen, ErrUnauthorized)
	}

	pair, account, err := m.api.Refresh(ctx, refreshToken)
	if err != nil {
		return m.failInitialization(ctx, gen, err)
	}
	if !Validate(account) {
		return m.failInitialization(ctx, gen, errors.New("server returned an invalid account"))
	}
	return m.finishInitialization(ctx, gen, pair, account, true)
}

// Login authenticates and, on success, installs the returned session.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	m.mu.Lock()
	gen := m.nextGenerationLocked()
	m.state = StateAuthenticating
	m.lastError = ""
	m.mu.Unlock()

	pair, account, err := m.api.Login(ctx, username, password)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return ErrSuperseded
	}
	if err != nil {
		m.state = StateError
		m.lastError = err.Error()
		return err
	}
	m.installLocked(ctx, pair, account)
	return nil
}

// Refresh rotates the token pair. Failure tears the whole session
// down: an expired refresh token means there is nothing left to hold
// on to, and a partially-authenticated state must never be observable.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	if m.refreshToken == "" {
		m.mu.Unlock()
		return ErrUnauthorized
	}
	gen := m.nextGenerationLocked()
	refreshToken := m.refreshToken
	m.mu.Unlock()

	pair, account, err := m.api.Refresh(ctx, refreshToken)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return ErrSuperseded
	}
	if err != nil {
		m.clearLocked(ctx)
		m.state = StateError
		m.lastError = err.Error()
		return err
	}
	m.installLocked(ctx, pair, account)
	return nil
}

// Logout tears down the session locally and revokes the refresh token
// on the server best-effort. Any in-flight login or refresh attempt is
// invalidated. Logging out twice is the same as logging out once.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.nextGenerationLocked()
	refreshToken := m.refreshToken
	m.clearLocked(ctx)
	m.state = StateUnauthenticated
	m.lastError = ""
	m.mu.Unlock()

	if refreshToken != "" {
		if err := m.api.Logout(ctx, refreshToken); err != nil {
			m.logger.Warn(ctx, "server-side logout failed", "error", err)
		}
	}
}

// SetAccount replaces the session's account without touching tokens or
// authentication status, e.g. after an on-demand refetch. Invalid
// accounts are ignored.
func (m *Manager) SetAccount(ctx context.Context, account types.Account) {
	if !Validate(account) {
		m.logger.Warn(ctx, "ignoring invalid account update")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.account = account
	m.hasAccount = true
	m.cache.Store(ctx, account)
}

// State returns the current logical session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAuthenticated reports whether the session holds a live token pair.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// Account returns the session's account, if one is set.
func (m *Manager) Account() (types.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.account, m.hasAccount
}

// AccessToken returns the current access token, or "" when absent.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessToken
}

// Err returns the last failure message, or "" when the last transition
// succeeded.
func (m *Manager) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

func (m *Manager) finishInitialization(ctx context.Context, gen uint64, pair TokenPair, account types.Account, rotated bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return ErrSuperseded
	}
	if rotated {
		m.installLocked(ctx, pair, account)
	} else {
		m.account = account
		m.hasAccount = true
		m.cache.Store(ctx, account)
		m.state = StateAuthenticated
	}
	m.initialized = true
	return nil
}

func (m *Manager) failInitialization(ctx context.Context, gen uint64, err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return ErrSuperseded
	}
	m.clearLocked(ctx)
	m.state = StateError
	m.lastError = err.Error()
	m.initialized = true
	return err
}

// installLocked applies a successful login or refresh: both tokens and
// the account are set in memory and written through in the same
// transition.
func (m *Manager) installLocked(ctx context.Context, pair TokenPair, account types.Account) {
	m.accessToken = pair.AccessToken
	m.refreshToken = pair.RefreshToken
	m.account = account
	m.hasAccount = true
	m.state = StateAuthenticated
	m.tokens.SetTokens(ctx, pair.AccessToken, pair.RefreshToken)
	m.cache.Store(ctx, account)
}

// clearLocked wipes the session and both durable stores.
func (m *Manager) clearLocked(ctx context.Context) {
	m.accessToken = ""
	m.refreshToken = ""
	m.account = types.Account{}
	m.hasAccount = false
	m.tokens.ClearTokens(ctx)
	m.cache.Clear(ctx)
}

func (m *Manager) nextGenerationLocked() uint64 {
	m.generation++
	return m.generation
}
