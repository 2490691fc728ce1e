package types

import "time"

// Student represents an enrolled student.
type Student struct {
	ID          int        `json:"id" db:"id"`
	FirstName   string     `json:"first_name" db:"first_name"`
	LastName    string     `json:"last_name" db:"last_name"`
	Phone       string     `json:"phone,omitempty" db:"phone"`
	ParentPhone string     `json:"parent_phone,omitempty" db:"parent_phone"`
	SchoolID    *int       `json:"school_id,omitempty" db:"school_id"`
	GroupID     *int       `json:"group_id,omitempty" db:"group_id"`
	EnrolledAt  time.Time  `json:"enrolled_at" db:"enrolled_at"`
	LeftAt      *time.Time `json:"left_at,omitempty" db:"left_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
