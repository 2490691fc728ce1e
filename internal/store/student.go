package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/chemist-edu/apiserver/types"
)

// StudentRepository handles persistence for students.
type StudentRepository struct {
	db *sql.DB
}

func NewStudentRepository(db *sql.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, first_name, last_name, phone, parent_phone, school_id, group_id,
	enrolled_at, left_at, created_at, updated_at`

func scanStudent(row interface{ Scan(...any) error }) (types.Student, error) {
	var student types.Student
	err := row.Scan(
		&student.ID,
		&student.FirstName,
		&student.LastName,
		&student.Phone,
		&student.ParentPhone,
		&student.SchoolID,
		&student.GroupID,
		&student.EnrolledAt,
		&student.LeftAt,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, ErrNotFound
		}
		return types.Student{}, err
	}
	return student, nil
}

func (r *StudentRepository) Get(ctx context.Context, id int) (types.Student, error) {
	const query = `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return scanStudent(r.db.QueryRowContext(ctx, query, id))
}

// List returns a page of students. When groupID is non-zero the page is
// restricted to that group.
func (r *StudentRepository) List(ctx context.Context, groupID, offset, limit int) ([]types.Student, int, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY id LIMIT $1 OFFSET $2`
	countQuery := `SELECT COUNT(*) FROM students`
	args := []any{limit, offset}
	countArgs := []any{}
	if groupID > 0 {
		query = `SELECT ` + studentColumns + ` FROM students WHERE group_id = $3 ORDER BY id LIMIT $1 OFFSET $2`
		countQuery = `SELECT COUNT(*) FROM students WHERE group_id = $1`
		args = append(args, groupID)
		countArgs = append(countArgs, groupID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	students := make([]types.Student, 0, limit)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

func (r *StudentRepository) Create(ctx context.Context, student types.Student) (types.Student, error) {
	now := time.Now()
	student.CreatedAt = now
	student.UpdatedAt = now
	if student.EnrolledAt.IsZero() {
		student.EnrolledAt = now
	}

	const query = `
		INSERT INTO students (first_name, last_name, phone, parent_phone, school_id, group_id,
			enrolled_at, left_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		student.FirstName,
		student.LastName,
		student.Phone,
		student.ParentPhone,
		student.SchoolID,
		student.GroupID,
		student.EnrolledAt,
		student.LeftAt,
		student.CreatedAt,
		student.UpdatedAt,
	).Scan(&student.ID); err != nil {
		return types.Student{}, err
	}
	return student, nil
}

func (r *StudentRepository) Update(ctx context.Context, student types.Student) (types.Student, error) {
	student.UpdatedAt = time.Now()

	const query = `
		UPDATE students
		SET first_name = $1,
			last_name = $2,
			phone = $3,
			parent_phone = $4,
			school_id = $5,
			group_id = $6,
			left_at = $7,
			updated_at = $8
		WHERE id = $9`
	result, err := r.db.ExecContext(
		ctx,
		query,
		student.FirstName,
		student.LastName,
		student.Phone,
		student.ParentPhone,
		student.SchoolID,
		student.GroupID,
		student.LeftAt,
		student.UpdatedAt,
		student.ID,
	)
	if err != nil {
		return types.Student{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Student{}, err
	}
	if affected == 0 {
		return types.Student{}, ErrNotFound
	}
	return student, nil
}

func (r *StudentRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM students WHERE id = $1`
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
