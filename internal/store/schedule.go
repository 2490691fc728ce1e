package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/chemist-edu/apiserver/types"
)

// ScheduleRepository handles persistence for weekly lesson slots.
type ScheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(db *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = `id, group_id, room_id, weekday, start_time, end_time, created_at, updated_at`

func scanSchedule(row interface{ Scan(...any) error }) (types.Schedule, error) {
	var schedule types.Schedule
	err := row.Scan(
		&schedule.ID,
		&schedule.GroupID,
		&schedule.RoomID,
		&schedule.Weekday,
		&schedule.StartTime,
		&schedule.EndTime,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Schedule{}, ErrNotFound
		}
		return types.Schedule{}, err
	}
	return schedule, nil
}

func (r *ScheduleRepository) Get(ctx context.Context, id int) (types.Schedule, error) {
	const query = `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`
	return scanSchedule(r.db.QueryRowContext(ctx, query, id))
}

func (r *ScheduleRepository) List(ctx context.Context, groupID, offset, limit int) ([]types.Schedule, int, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules ORDER BY weekday, start_time LIMIT $1 OFFSET $2`
	countQuery := `SELECT COUNT(*) FROM schedules`
	args := []any{limit, offset}
	countArgs := []any{}
	if groupID > 0 {
		query = `SELECT ` + scheduleColumns + ` FROM schedules WHERE group_id = $3 ORDER BY weekday, start_time LIMIT $1 OFFSET $2`
		countQuery = `SELECT COUNT(*) FROM schedules WHERE group_id = $1`
		args = append(args, groupID)
		countArgs = append(countArgs, groupID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	schedules := make([]types.Schedule, 0, limit)
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, 0, err
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return schedules, total, nil
}

func (r *ScheduleRepository) Create(ctx context.Context, schedule types.Schedule) (types.Schedule, error) {
	now := time.Now()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	const query = `
		INSERT INTO schedules (group_id, room_id, weekday, start_time, end_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		schedule.GroupID,
		schedule.RoomID,
		schedule.Weekday,
		schedule.StartTime,
		schedule.EndTime,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	).Scan(&schedule.ID); err != nil {
		return types.Schedule{}, err
	}
	return schedule, nil
}

func (r *ScheduleRepository) Update(ctx context.Context, schedule types.Schedule) (types.Schedule, error) {
	schedule.UpdatedAt = time.Now()

	const query = `
		UPDATE schedules
		SET group_id = $1,
			room_id = $2,
			weekday = $3,
			start_time = $4,
			end_time = $5,
			updated_at = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		schedule.GroupID,
		schedule.RoomID,
		schedule.Weekday,
		schedule.StartTime,
		schedule.EndTime,
		schedule.UpdatedAt,
		schedule.ID,
	)
	if err != nil {
		return types.Schedule{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Schedule{}, err
	}
	if affected == 0 {
		return types.Schedule{}, ErrNotFound
	}
	return schedule, nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM schedules WHERE id = $1`
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
