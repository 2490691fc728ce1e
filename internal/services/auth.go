package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/chemist-edu/apiserver/internal/store"
	"github.com/chemist-edu/apiserver/types"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for a wrong username/password
	// pair and for unknown or expired refresh tokens. Callers must not
	// distinguish the cases to avoid leaking which part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountInactive is returned when a deactivated account
	// attempts to sign in or refresh.
	ErrAccountInactive = errors.New("account is deactivated")
)

// RefreshTokenRepository defines persistence for refresh tokens.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token store.RefreshToken) (store.RefreshToken, error)
	GetByHash(ctx context.Context, tokenHash string) (store.RefreshToken, error)
	DeleteByHash(ctx context.Context, tokenHash string) error
	DeleteByAccount(ctx context.Context, accountID int) error
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService issues and rotates session tokens.
type AuthService struct {
	accounts   AccountRepository
	refresh    RefreshTokenRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(
	accounts AccountRepository,
	refresh RefreshTokenRepository,
	jwtSecret string,
	accessTTL, refreshTTL time.Duration,
) *AuthService {
	return &AuthService{
		accounts:   accounts,
		refresh:    refresh,
		secret:     []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Login verifies credentials and issues a fresh token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (TokenPair, types.Account, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TokenPair{}, types.Account{}, ErrInvalidCredentials
		}
		return TokenPair{}, types.Account{}, err
	}

	if !account.Active() {
		return TokenPair{}, types.Account{}, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return TokenPair{}, types.Account{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, account.ID)
	if err != nil {
		return TokenPair{}, types.Account{}, err
	}
	return pair, account, nil
}

// Refresh rotates a refresh token: the presented token is invalidated
// and a new pair is issued. An unknown or expired token yields
// ErrInvalidCredentials; an expired token is also deleted.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, types.Account, error) {
	record, err := s.refresh.GetByHash(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TokenPair{}, types.Account{}, ErrInvalidCredentials
		}
		return TokenPair{}, types.Account{}, err
	}

	if record.ExpiresAt.Before(time.Now()) {
		_ = s.refresh.DeleteByHash(ctx, record.TokenHash)
		return TokenPair{}, types.Account{}, ErrInvalidCredentials
	}

	account, err := s.accounts.GetByID(ctx, record.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TokenPair{}, types.Account{}, ErrInvalidCredentials
		}
		return TokenPair{}, types.Account{}, err
	}
	if !account.Active() {
		return TokenPair{}, types.Account{}, ErrAccountInactive
	}

	if err := s.refresh.DeleteByHash(ctx, record.TokenHash); err != nil && !errors.Is(err, store.ErrNotFound) {
		return TokenPair{}, types.Account{}, err
	}

	pair, err := s.issuePair(ctx, account.ID)
	if err != nil {
		return TokenPair{}, types.Account{}, err
	}
	return pair, account, nil
}

// Logout revokes the presented refresh token. Revoking an unknown
// token is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.refresh.DeleteByHash(ctx, hashToken(refreshToken))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// GetAccount loads the account behind an access token subject.
func (s *AuthService) GetAccount(ctx context.Context, id int) (types.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// ParseAccessToken validates an access token and returns its subject.
func (s *AuthService) ParseAccessToken(tokenString string) (int, error) {
	return ParseAccessToken(tokenString, s.secret)
}

func (s *AuthService) issuePair(ctx context.Context, accountID int) (TokenPair, error) {
	accessToken, err := issueAccessToken(accountID, s.secret, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return TokenPair{}, err
	}

	_, err = s.refresh.Create(ctx, store.RefreshToken{
		AccountID: accountID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().Add(s.refreshTTL),
	})
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func issueAccessToken(accountID int, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(accountID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseAccessToken validates signature and expiry and returns the
// numeric account id carried in the subject claim.
func ParseAccessToken(tokenString string, secret []byte) (int, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errors.New("invalid token")
	}
	id, err := strconv.Atoi(claims.Subject)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid subject: %q", claims.Subject)
	}
	return id, nil
}

func newRefreshToken() (string, error) {
	var buf [48]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf[:]), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
