package domain

import "time"

// Account is a registered identity. The password is only ever held as a
// bcrypt hash.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// Claims is the verified content of a bearer token.
type Claims struct {
	Subject   string
	Roles     []Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasAnyRole reports whether the claims intersect accepted. Roles do not
// inherit from each other.
func (c *Claims) HasAnyRole(accepted ...Role) bool {
	for _, held := range c.Roles {
		for _, want := range accepted {
			if held == want {
				return true
			}
		}
	}
	return false
}
