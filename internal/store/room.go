package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/chemist-edu/apiserver/types"
)

// RoomRepository handles persistence for classrooms.
type RoomRepository struct {
	db *sql.DB
}

func NewRoomRepository(db *sql.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

const roomColumns = `id, name, capacity, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (types.Room, error) {
	var room types.Room
	err := row.Scan(
		&room.ID,
		&room.Name,
		&room.Capacity,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Room{}, ErrNotFound
		}
		return types.Room{}, err
	}
	return room, nil
}

func (r *RoomRepository) Get(ctx context.Context, id int) (types.Room, error) {
	const query = `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	return scanRoom(r.db.QueryRowContext(ctx, query, id))
}

func (r *RoomRepository) List(ctx context.Context, offset, limit int) ([]types.Room, int, error) {
	const query = `SELECT ` + roomColumns + ` FROM rooms ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	rooms := make([]types.Room, 0, limit)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, 0, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

func (r *RoomRepository) Create(ctx context.Context, room types.Room) (types.Room, error) {
	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	const query = `
		INSERT INTO rooms (name, capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		room.Name,
		room.Capacity,
		room.CreatedAt,
		room.UpdatedAt,
	).Scan(&room.ID); err != nil {
		return types.Room{}, err
	}
	return room, nil
}

func (r *RoomRepository) Update(ctx context.Context, room types.Room) (types.Room, error) {
	room.UpdatedAt = time.Now()

	const query = `
		UPDATE rooms
		SET name = $1,
			capacity = $2,
			updated_at = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, room.Name, room.Capacity, room.UpdatedAt, room.ID)
	if err != nil {
		return types.Room{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Room{}, err
	}
	if affected == 0 {
		return types.Room{}, ErrNotFound
	}
	return room, nil
}

func (r *RoomRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM rooms WHERE id = $1`
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
