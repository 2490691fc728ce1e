package types

import "time"

// Account represents an administrative identity in the system.
// It contains identity, role, and audit metadata.
type Account struct {
	// ID is the unique identifier of the account.
	ID int `json:"id" db:"id"`

	// Username is the unique login name chosen for the account.
	Username string `json:"username" db:"username"`

	// Email is the account holder's email address.
	Email string `json:"email" db:"email"`

	// Name is the account holder's display or full name.
	Name string `json:"name" db:"name"`

	// Phone is an optional contact phone number.
	Phone string `json:"phone,omitempty" db:"phone"`

	// RoleName is the primary role within the system, stored in its
	// raw prefixed form (e.g., "ROLE_ADMIN").
	RoleName string `json:"role_name" db:"role_name"`

	// Roles lists every role the account holds, primary included.
	// May be empty when the account carries only RoleName.
	Roles []string `json:"roles,omitempty" db:"roles"`

	// PasswordHash stores the hashed representation of the password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// ActivatedAt is the timestamp when the account was activated.
	ActivatedAt time.Time `json:"activated_at" db:"activated_at"`

	// DeactivatedAt is set when the account has been deactivated.
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty" db:"deactivated_at"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Active reports whether the account may sign in.
func (a Account) Active() bool {
	return a.DeactivatedAt == nil
}
