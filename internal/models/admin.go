package models

// AdminUser grants admin privilege to an identity. A row exists for an
// email if and only if that identity is an admin; inserting the same
// email twice is a no-op.
type AdminUser struct {
	UserID string `db:"user_id" json:"user_id"`
	Email  string `db:"email"   json:"email"`
}
