package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/chemist-edu/apiserver/types"
	"github.com/lib/pq"
)

// AccountRepository handles persistence for administrative accounts.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, username, email, name, phone, role_name, roles, password_hash,
	activated_at, deactivated_at, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (types.Account, error) {
	var account types.Account
	var roles pq.StringArray
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.Name,
		&account.Phone,
		&account.RoleName,
		&roles,
		&account.PasswordHash,
		&account.ActivatedAt,
		&account.DeactivatedAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Account{}, ErrNotFound
		}
		return types.Account{}, err
	}
	account.Roles = []string(roles)
	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int) (types.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (types.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, username))
}

func (r *AccountRepository) List(ctx context.Context, offset, limit int) ([]types.Account, int, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	accounts := make([]types.Account, 0, limit)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

func (r *AccountRepository) Create(ctx context.Context, account types.Account) (types.Account, error) {
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	if account.ActivatedAt.IsZero() {
		account.ActivatedAt = now
	}

	const query = `
		INSERT INTO accounts (username, email, name, phone, role_name, roles, password_hash,
			activated_at, deactivated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.Username,
		account.Email,
		account.Name,
		account.Phone,
		account.RoleName,
		pq.Array(account.Roles),
		account.PasswordHash,
		account.ActivatedAt,
		account.DeactivatedAt,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&account.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return types.Account{}, ErrDuplicate
		}
		return types.Account{}, err
	}
	return account, nil
}

func (r *AccountRepository) Update(ctx context.Context, account types.Account) (types.Account, error) {
	account.UpdatedAt = time.Now()

	const query = `
		UPDATE accounts
		SET username = $1,
			email = $2,
			name = $3,
			phone = $4,
			role_name = $5,
			roles = $6,
			password_hash = $7,
			deactivated_at = $8,
			updated_at = $9
		WHERE id = $10`
	result, err := r.db.ExecContext(
		ctx,
		query,
		account.Username,
		account.Email,
		account.Name,
		account.Phone,
		account.RoleName,
		pq.Array(account.Roles),
		account.PasswordHash,
		account.DeactivatedAt,
		account.UpdatedAt,
		account.ID,
	)
	if err != nil {
		return types.Account{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Account{}, err
	}
	if affected == 0 {
		return types.Account{}, ErrNotFound
	}
	return account, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM accounts WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
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
