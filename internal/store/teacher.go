package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/chemist-edu/apiserver/types"
)

// TeacherRepository handles persistence for teachers.
type TeacherRepository struct {
	db *sql.DB
}

func NewTeacherRepository(db *sql.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

const teacherColumns = `id, first_name, last_name, phone, email, subject, created_at, updated_at`

func scanTeacher(row interface{ Scan(...any) error }) (types.Teacher, error) {
	var teacher types.Teacher
	err := row.Scan(
		&teacher.ID,
		&teacher.FirstName,
		&teacher.LastName,
		&teacher.Phone,
		&teacher.Email,
		&teacher.Subject,
		&teacher.CreatedAt,
		&teacher.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Teacher{}, ErrNotFound
		}
		return types.Teacher{}, err
	}
	return teacher, nil
}

func (r *TeacherRepository) Get(ctx context.Context, id int) (types.Teacher, error) {
	const query = `SELECT ` + teacherColumns + ` FROM teachers WHERE id = $1`
	return scanTeacher(r.db.QueryRowContext(ctx, query, id))
}

func (r *TeacherRepository) List(ctx context.Context, offset, limit int) ([]types.Teacher, int, error) {
	const query = `SELECT ` + teacherColumns + ` FROM teachers ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	teachers := make([]types.Teacher, 0, limit)
	for rows.Next() {
		teacher, err := scanTeacher(rows)
		if err != nil {
			return nil, 0, err
		}
		teachers = append(teachers, teacher)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teachers`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return teachers, total, nil
}

func (r *TeacherRepository) Create(ctx context.Context, teacher types.Teacher) (types.Teacher, error) {
	now := time.Now()
	teacher.CreatedAt = now
	teacher.UpdatedAt = now

	const query = `
		INSERT INTO teachers (first_name, last_name, phone, email, subject, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		teacher.FirstName,
		teacher.LastName,
		teacher.Phone,
		teacher.Email,
		teacher.Subject,
		teacher.CreatedAt,
		teacher.UpdatedAt,
	).Scan(&teacher.ID); err != nil {
		return types.Teacher{}, err
	}
	return teacher, nil
}

func (r *TeacherRepository) Update(ctx context.Context, teacher types.Teacher) (types.Teacher, error) {
	teacher.UpdatedAt = time.Now()

	const query = `
		UPDATE teachers
		SET first_name = $1,
			last_name = $2,
			phone = $3,
			email = $4,
			subject = $5,
			updated_at = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		teacher.FirstName,
		teacher.LastName,
		teacher.Phone,
		teacher.Email,
		teacher.Subject,
		teacher.UpdatedAt,
		teacher.ID,
	)
	if err != nil {
		return types.Teacher{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Teacher{}, err
	}
	if affected == 0 {
		return types.Teacher{}, ErrNotFound
	}
	return teacher, nil
}

func (r *TeacherRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM teachers WHERE id = $1`
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
