package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/chemist-edu/apiserver/types"
)

// FeeRepository handles persistence for group tuition fees.
type FeeRepository struct {
	db *sql.DB
}

func NewFeeRepository(db *sql.DB) *FeeRepository {
	return &FeeRepository{db: db}
}

const feeColumns = `id, group_id, amount, currency, effective_from, created_at, updated_at`

func scanFee(row interface{ Scan(...any) error }) (types.Fee, error) {
	var fee types.Fee
	err := row.Scan(
		&fee.ID,
		&fee.GroupID,
		&fee.Amount,
		&fee.Currency,
		&fee.EffectiveFrom,
		&fee.CreatedAt,
		&fee.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Fee{}, ErrNotFound
		}
		return types.Fee{}, err
	}
	return fee, nil
}

func (r *FeeRepository) Get(ctx context.Context, id int) (types.Fee, error) {
	const query = `SELECT ` + feeColumns + ` FROM fees WHERE id = $1`
	return scanFee(r.db.QueryRowContext(ctx, query, id))
}

// CurrentForGroup returns the fee in force for the group at the given
// time: the row with the latest effective_from not after it.
func (r *FeeRepository) CurrentForGroup(ctx context.Context, groupID int, at time.Time) (types.Fee, error) {
	const query = `
		SELECT ` + feeColumns + `
		FROM fees
		WHERE group_id = $1 AND effective_from <= $2
		ORDER BY effective_from DESC
		LIMIT 1`
	return scanFee(r.db.QueryRowContext(ctx, query, groupID, at))
}

func (r *FeeRepository) List(ctx context.Context, groupID, offset, limit int) ([]types.Fee, int, error) {
	query := `SELECT ` + feeColumns + ` FROM fees ORDER BY id LIMIT $1 OFFSET $2`
	countQuery := `SELECT COUNT(*) FROM fees`
	args := []any{limit, offset}
	countArgs := []any{}
	if groupID > 0 {
		query = `SELECT ` + feeColumns + ` FROM fees WHERE group_id = $3 ORDER BY id LIMIT $1 OFFSET $2`
		countQuery = `SELECT COUNT(*) FROM fees WHERE group_id = $1`
		args = append(args, groupID)
		countArgs = append(countArgs, groupID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	fees := make([]types.Fee, 0, limit)
	for rows.Next() {
		fee, err := scanFee(rows)
		if err != nil {
			return nil, 0, err
		}
		fees = append(fees, fee)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return fees, total, nil
}

func (r *FeeRepository) Create(ctx context.Context, fee types.Fee) (types.Fee, error) {
	now := time.Now()
	fee.CreatedAt = now
	fee.UpdatedAt = now
	if fee.EffectiveFrom.IsZero() {
		fee.EffectiveFrom = now
	}

	const query = `
		INSERT INTO fees (group_id, amount, currency, effective_from, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		fee.GroupID,
		fee.Amount,
		fee.Currency,
		fee.EffectiveFrom,
		fee.CreatedAt,
		fee.UpdatedAt,
	).Scan(&fee.ID); err != nil {
		return types.Fee{}, err
	}
	return fee, nil
}

func (r *FeeRepository) Update(ctx context.Context, fee types.Fee) (types.Fee, error) {
	fee.UpdatedAt = time.Now()

	const query = `
		UPDATE fees
		SET group_id = $1,
			amount = $2,
			currency = $3,
			effective_from = $4,
			updated_at = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(
		ctx,
		query,
		fee.GroupID,
		fee.Amount,
		fee.Currency,
		fee.EffectiveFrom,
		fee.UpdatedAt,
		fee.ID,
	)
	if err != nil {
		return types.Fee{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Fee{}, err
	}
	if affected == 0 {
		return types.Fee{}, ErrNotFound
	}
	return fee, nil
}

func (r *FeeRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM fees WHERE id = $1`
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
