package types

import "time"

// Group is a study group: a set of students taught by one teacher,
// usually bound to a room and a weekly schedule.
type Group struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Subject   string    `json:"subject,omitempty" db:"subject"`
	TeacherID *int      `json:"teacher_id,omitempty" db:"teacher_id"`
	RoomID    *int      `json:"room_id,omitempty" db:"room_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
