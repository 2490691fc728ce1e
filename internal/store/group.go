package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/chemist-edu/apiserver/types"
)

// GroupRepository handles persistence for study groups.
type GroupRepository struct {
	db *sql.DB
}

func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

const groupColumns = `id, name, subject, teacher_id, room_id, created_at, updated_at`

func scanGroup(row interface{ Scan(...any) error }) (types.Group, error) {
	var group types.Group
	err := row.Scan(
		&group.ID,
		&group.Name,
		&group.Subject,
		&group.TeacherID,
		&group.RoomID,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Group{}, ErrNotFound
		}
		return types.Group{}, err
	}
	return group, nil
}

func (r *GroupRepository) Get(ctx context.Context, id int) (types.Group, error) {
	const query = `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`
	return scanGroup(r.db.QueryRowContext(ctx, query, id))
}

func (r *GroupRepository) List(ctx context.Context, offset, limit int) ([]types.Group, int, error) {
	const query = `SELECT ` + groupColumns + ` FROM groups ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	groups := make([]types.Group, 0, limit)
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, 0, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return groups, total, nil
}

func (r *GroupRepository) Create(ctx context.Context, group types.Group) (types.Group, error) {
	now := time.Now()
	group.CreatedAt = now
	group.UpdatedAt = now

	const query = `
		INSERT INTO groups (name, subject, teacher_id, room_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		group.Name,
		group.Subject,
		group.TeacherID,
		group.RoomID,
		group.CreatedAt,
		group.UpdatedAt,
	).Scan(&group.ID); err != nil {
		return types.Group{}, err
	}
	return group, nil
}

func (r *GroupRepository) Update(ctx context.Context, group types.Group) (types.Group, error) {
	group.UpdatedAt = time.Now()

	const query = `
		UPDATE groups
		SET name = $1,
			subject = $2,
			teacher_id = $3,
			room_id = $4,
			updated_at = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(
		ctx,
		query,
		group.Name,
		group.Subject,
		group.TeacherID,
		group.RoomID,
		group.UpdatedAt,
		group.ID,
	)
	if err != nil {
		return types.Group{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Group{}, err
	}
	if affected == 0 {
		return types.Group{}, ErrNotFound
	}
	return group, nil
}

func (r *GroupRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM groups WHERE id = $1`
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
