package domain

import "time"

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// ValidRole reports whether role is one of the known role values.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// User is the single persisted entity: one row in the `user` table.
// PasswordDigest holds the bcrypt hash of the password and is excluded from
// every serialized form.
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordDigest string    `json:"-"`
	Role           string    `json:"role"`
	AccessToken    string    `json:"accessToken,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Actor is the authenticated identity making the current request, decoded
// from the bearer token by the auth middleware.
type Actor struct {
	ID    int64
	Email string
	Role  string
}
