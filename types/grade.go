package types

import "time"

// Grade is a mark given to a student in a group.
type Grade struct {
	ID        int       `json:"id" db:"id"`
	StudentID int       `json:"student_id" db:"student_id"`
	GroupID   int       `json:"group_id" db:"group_id"`
	Value     int       `json:"value" db:"value"`
	Comment   string    `json:"comment,omitempty" db:"comment"`
	GradedAt  time.Time `json:"graded_at" db:"graded_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
