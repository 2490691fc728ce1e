package session

import (
	"context"

	"github.com/chemist-edu/apiserver/internal/logging"
)

// Fixed keys under which the token pair lives in the metadata table.
const (
	accessTokenKey  = "chemist_access_token"
	refreshTokenKey = "chemist_refresh_token"
)

// TokenStore persists the session token pair. Tokens are opaque bearer
// strings; no validation is performed on their contents. Storage
// failures degrade to "absent" and are logged, never surfaced: a
// broken local store must not crash the caller.
type TokenStore struct {
	repo   *MetadataRepository
	logger logging.Logger
}

func NewTokenStore(repo *MetadataRepository, logger logging.Logger) *TokenStore {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &TokenStore{repo: repo, logger: logger}
}

// AccessToken returns the stored access token, or "" when absent.
func (s *TokenStore) AccessToken(ctx context.Context) string {
	return s.get(ctx, accessTokenKey)
}

// RefreshToken returns the stored refresh token, or "" when absent.
func (s *TokenStore) RefreshToken(ctx context.Context) string {
	return s.get(ctx, refreshTokenKey)
}

// SetTokens overwrites both tokens in one transaction, so a reader
// never observes a mixed pair.
func (s *TokenStore) SetTokens(ctx context.Context, access, refresh string) {
	err := s.repo.SetMany(ctx, map[string][]byte{
		accessTokenKey:  []byte(access),
		refreshTokenKey: []byte(refresh),
	})
	if err != nil {
		s.logger.Error(ctx, "token store write failed", "error", err)
	}
}

// ClearTokens removes both tokens. Idempotent.
func (s *TokenStore) ClearTokens(ctx context.Context) {
	if err := s.repo.Delete(ctx, accessTokenKey, refreshTokenKey); err != nil {
		s.logger.Error(ctx, "token store clear failed", "error", err)
	}
}

func (s *TokenStore) get(ctx context.Context, key string) string {
	value, err := s.repo.Get(ctx, key)
	if err != nil {
		s.logger.Error(ctx, "token store read failed", "key", key, "error", err)
		return ""
	}
	return string(value)
}
