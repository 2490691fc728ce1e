package types

import "time"

// Payment records a tuition payment made by a student for a billing
// period ("YYYY-MM"). ReceiptKey points at an uploaded receipt object
// when one exists.
type Payment struct {
	ID         int       `json:"id" db:"id"`
	StudentID  int       `json:"student_id" db:"student_id"`
	GroupID    int       `json:"group_id" db:"group_id"`
	Amount     int64     `json:"amount" db:"amount"`
	Currency   string    `json:"currency" db:"currency"`
	Period     string    `json:"period" db:"period"`
	Method     string    `json:"method,omitempty" db:"method"`
	Comment    string    `json:"comment,omitempty" db:"comment"`
	ReceiptKey string    `json:"receipt_key,omitempty" db:"receipt_key"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
