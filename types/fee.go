package types

import "time"

// Fee is the monthly tuition amount charged for a group. A new row is
// added when the amount changes; the row with the latest EffectiveFrom
// not after the billing period is the one in force.
type Fee struct {
	ID            int       `json:"id" db:"id"`
	GroupID       int       `json:"group_id" db:"group_id"`
	Amount        int64     `json:"amount" db:"amount"`
	Currency      string    `json:"currency" db:"currency"`
	EffectiveFrom time.Time `json:"effective_from" db:"effective_from"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
