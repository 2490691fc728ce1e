package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/chemist-edu/apiserver/types"
)

// GradeRepository handles persistence for student grades.
type GradeRepository struct {
	db *sql.DB
}

func NewGradeRepository(db *sql.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

const gradeColumns = `id, student_id, group_id, value, comment, graded_at, created_at, updated_at`

func scanGrade(row interface{ Scan(...any) error }) (types.Grade, error) {
	var grade types.Grade
	err := row.Scan(
		&grade.ID,
		&grade.StudentID,
		&grade.GroupID,
		&grade.Value,
		&grade.Comment,
		&grade.GradedAt,
		&grade.CreatedAt,
		&grade.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Grade{}, ErrNotFound
		}
		return types.Grade{}, err
	}
	return grade, nil
}

func (r *GradeRepository) Get(ctx context.Context, id int) (types.Grade, error) {
	const query = `SELECT ` + gradeColumns + ` FROM grades WHERE id = $1`
	return scanGrade(r.db.QueryRowContext(ctx, query, id))
}

func (r *GradeRepository) List(ctx context.Context, studentID, offset, limit int) ([]types.Grade, int, error) {
	query := `SELECT ` + gradeColumns + ` FROM grades ORDER BY graded_at DESC LIMIT $1 OFFSET $2`
	countQuery := `SELECT COUNT(*) FROM grades`
	args := []any{limit, offset}
	countArgs := []any{}
	if studentID > 0 {
		query = `SELECT ` + gradeColumns + ` FROM grades WHERE student_id = $3 ORDER BY graded_at DESC LIMIT $1 OFFSET $2`
		countQuery = `SELECT COUNT(*) FROM grades WHERE student_id = $1`
		args = append(args, studentID)
		countArgs = append(countArgs, studentID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	grades := make([]types.Grade, 0, limit)
	for rows.Next() {
		grade, err := scanGrade(rows)
		if err != nil {
			return nil, 0, err
		}
		grades = append(grades, grade)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return grades, total, nil
}

func (r *GradeRepository) Create(ctx context.Context, grade types.Grade) (types.Grade, error) {
	now := time.Now()
	grade.CreatedAt = now
	grade.UpdatedAt = now
	if grade.GradedAt.IsZero() {
		grade.GradedAt = now
	}

	const query = `
		INSERT INTO grades (student_id, group_id, value, comment, graded_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		grade.StudentID,
		grade.GroupID,
		grade.Value,
		grade.Comment,
		grade.GradedAt,
		grade.CreatedAt,
		grade.UpdatedAt,
	).Scan(&grade.ID); err != nil {
		return types.Grade{}, err
	}
	return grade, nil
}

func (r *GradeRepository) Update(ctx context.Context, grade types.Grade) (types.Grade, error) {
	grade.UpdatedAt = time.Now()

	const query = `
		UPDATE grades
		SET student_id = $1,
			group_id = $2,
			value = $3,
			comment = $4,
			graded_at = $5,
			updated_at = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		grade.StudentID,
		grade.GroupID,
		grade.Value,
		grade.Comment,
		grade.GradedAt,
		grade.UpdatedAt,
		grade.ID,
	)
	if err != nil {
		return types.Grade{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Grade{}, err
	}
	if affected == 0 {
		return types.Grade{}, ErrNotFound
	}
	return grade, nil
}

func (r *GradeRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM grades WHERE id = $1`
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
