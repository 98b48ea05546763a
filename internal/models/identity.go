package models

// Identity is the authenticated principal extracted from a bearer
// token. A nil *Identity means the caller is anonymous. Privilege is
// NOT carried here; it is resolved against the admin registry on
// every decision.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Editor is a row of the editors table, used only by the login
// endpoint. Password hashes never leave this package.
type Editor struct {
	ID           string `db:"id"            json:"id"`
	Email        string `db:"email"         json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
}
