package types

import "time"

// Schedule is a weekly lesson slot for a group. Weekday follows
// time.Weekday numbering (Sunday = 0). Times are "HH:MM" strings in
// the center's local time.
type Schedule struct {
	ID        int       `json:"id" db:"id"`
	GroupID   int       `json:"group_id" db:"group_id"`
	RoomID    *int      `json:"room_id,omitempty" db:"room_id"`
	Weekday   int       `json:"weekday" db:"weekday"`
	StartTime string    `json:"start_time" db:"start_time"`
	EndTime   string    `json:"end_time" db:"end_time"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
