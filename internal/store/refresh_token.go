package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// RefreshToken is the server-side record of an issued refresh token.
// Only the SHA-256 hash of the opaque token is stored.
type RefreshToken struct {
	ID        int
	AccountID int
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// RefreshTokenRepository handles persistence for refresh tokens.
type RefreshTokenRepository struct {
	db *sql.DB
}

func NewRefreshTokenRepository(db *sql.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token RefreshToken) (RefreshToken, error) {
	token.CreatedAt = time.Now()

	const query = `
		INSERT INTO refresh_tokens (account_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		token.AccountID,
		token.TokenHash,
		token.ExpiresAt,
		token.CreatedAt,
	).Scan(&token.ID); err != nil {
		return RefreshToken{}, err
	}
	return token, nil
}

func (r *RefreshTokenRepository) GetByHash(ctx context.Context, tokenHash string) (RefreshToken, error) {
	const query = `
		SELECT id, account_id, token_hash, expires_at, created_at
		FROM refresh_tokens
		WHERE token_hash = $1`
	var token RefreshToken
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.AccountID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RefreshToken{}, ErrNotFound
		}
		return RefreshToken{}, err
	}
	return token, nil
}

func (r *RefreshTokenRepository) DeleteByHash(ctx context.Context, tokenHash string) error {
	const query = `DELETE FROM refresh_tokens WHERE token_hash = $1`
	result, err := r.db.ExecContext(ctx, query, tokenHash)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByAccount revokes every refresh token held by an account.
func (r *RefreshTokenRepository) DeleteByAccount(ctx context.Context, accountID int) error {
	const query = `DELETE FROM refresh_tokens WHERE account_id = $1`
	_, err := r.db.ExecContext(ctx, query, accountID)
	return err
}

// DeleteExpired removes tokens whose expiry has passed.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM refresh_tokens WHERE expires_at < now()`
	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
