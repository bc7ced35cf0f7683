package entity

import (
	"time"
)

// User is the sanitized identity exposed to consumers and persisted as the
// session record. It never carries a secret.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

// CredentialUser is a User from the identity universe together with its
// bcrypt password hash.
type CredentialUser struct {
	User
	PasswordHash string
}

// Sanitize strips the secret and returns the public identity.
func (u CredentialUser) Sanitize() User {
	return u.User
}

// Valid reports whether a restored session record can be trusted as an identity.
func (u User) Valid() bool {
	return u.ID != ""
}
