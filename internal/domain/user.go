package domain

import "time"

// Role is the sole authorization attribute of a user.
type Role string

const (
	RoleRequester Role = "requester"
	RoleAgent     Role = "agent"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleRequester, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// User is a registered account. Role is fixed at registration.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
