package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/chemist-edu/apiserver/types"
)

// PaymentRepository handles persistence for tuition payments.
type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, student_id, group_id, amount, currency, period, method, comment,
	receipt_key, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (types.Payment, error) {
	var payment types.Payment
	err := row.Scan(
		&payment.ID,
		&payment.StudentID,
		&payment.GroupID,
		&payment.Amount,
		&payment.Currency,
		&payment.Period,
		&payment.Method,
		&payment.Comment,
		&payment.ReceiptKey,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Payment{}, ErrNotFound
		}
		return types.Payment{}, err
	}
	return payment, nil
}

func (r *PaymentRepository) Get(ctx context.Context, id int) (types.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(r.db.QueryRowContext(ctx, query, id))
}

// ExistsEqual reports whether a payment with the same student, group,
// period, and amount is already recorded.
func (r *PaymentRepository) ExistsEqual(ctx context.Context, payment types.Payment) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM payments
			WHERE student_id = $1 AND group_id = $2 AND period = $3 AND amount = $4
		)`
	var exists bool
	err := r.db.QueryRowContext(
		ctx,
		query,
		payment.StudentID,
		payment.GroupID,
		payment.Period,
		payment.Amount,
	).Scan(&exists)
	return exists, err
}

func (r *PaymentRepository) List(ctx context.Context, studentID, offset, limit int) ([]types.Payment, int, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY id DESC LIMIT $1 OFFSET $2`
	countQuery := `SELECT COUNT(*) FROM payments`
	args := []any{limit, offset}
	countArgs := []any{}
	if studentID > 0 {
		query = `SELECT ` + paymentColumns + ` FROM payments WHERE student_id = $3 ORDER BY id DESC LIMIT $1 OFFSET $2`
		countQuery = `SELECT COUNT(*) FROM payments WHERE student_id = $1`
		args = append(args, studentID)
		countArgs = append(countArgs, studentID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	payments := make([]types.Payment, 0, limit)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *PaymentRepository) Create(ctx context.Context, payment types.Payment) (types.Payment, error) {
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	const query = `
		INSERT INTO payments (student_id, group_id, amount, currency, period, method, comment,
			receipt_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		payment.StudentID,
		payment.GroupID,
		payment.Amount,
		payment.Currency,
		payment.Period,
		payment.Method,
		payment.Comment,
		payment.ReceiptKey,
		payment.CreatedAt,
		payment.UpdatedAt,
	).Scan(&payment.ID); err != nil {
		return types.Payment{}, err
	}
	return payment, nil
}

// SetReceiptKey records the object storage key of an uploaded receipt.
func (r *PaymentRepository) SetReceiptKey(ctx context.Context, id int, key string) error {
	const query = `UPDATE payments SET receipt_key = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, key, time.Now(), id)
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

func (r *PaymentRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM payments WHERE id = $1`
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
