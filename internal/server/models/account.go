package models

import "time"

// RoleAssignment is the current role of a principal.
type RoleAssignment struct {
	Principal string    `db:"principal"`
	Role      string    `db:"role"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Profile is a principal's saved display name. Seq is assigned on first
// save and never changes, so ordering by it gives registration order.
type Profile struct {
	Seq       int64     `db:"seq"`
	Principal string    `db:"principal"`
	Name      string    `db:"name"`
	UpdatedAt time.Time `db:"updated_at"`
}
