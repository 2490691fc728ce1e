package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/chemist-edu/apiserver/types"
)

// SchoolRepository handles persistence for schools.
type SchoolRepository struct {
	db *sql.DB
}

func NewSchoolRepository(db *sql.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

const schoolColumns = `id, name, address, created_at, updated_at`

func scanSchool(row interface{ Scan(...any) error }) (types.School, error) {
	var school types.School
	err := row.Scan(
		&school.ID,
		&school.Name,
		&school.Address,
		&school.CreatedAt,
		&school.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.School{}, ErrNotFound
		}
		return types.School{}, err
	}
	return school, nil
}

func (r *SchoolRepository) Get(ctx context.Context, id int) (types.School, error) {
	const query = `SELECT ` + schoolColumns + ` FROM schools WHERE id = $1`
	return scanSchool(r.db.QueryRowContext(ctx, query, id))
}

func (r *SchoolRepository) List(ctx context.Context, offset, limit int) ([]types.School, int, error) {
	const query = `SELECT ` + schoolColumns + ` FROM schools ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	schools := make([]types.School, 0, limit)
	for rows.Next() {
		school, err := scanSchool(rows)
		if err != nil {
			return nil, 0, err
		}
		schools = append(schools, school)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schools`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return schools, total, nil
}

func (r *SchoolRepository) Create(ctx context.Context, school types.School) (types.School, error) {
	now := time.Now()
	school.CreatedAt = now
	school.UpdatedAt = now

	const query = `
		INSERT INTO schools (name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		school.Name,
		school.Address,
		school.CreatedAt,
		school.UpdatedAt,
	).Scan(&school.ID); err != nil {
		return types.School{}, err
	}
	return school, nil
}

func (r *SchoolRepository) Update(ctx context.Context, school types.School) (types.School, error) {
	school.UpdatedAt = time.Now()

	const query = `
		UPDATE schools
		SET name = $1,
			address = $2,
			updated_at = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, school.Name, school.Address, school.UpdatedAt, school.ID)
	if err != nil {
		return types.School{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.School{}, err
	}
	if affected == 0 {
		return types.School{}, ErrNotFound
	}
	return school, nil
}

func (r *SchoolRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM schools WHERE id = $1`
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
