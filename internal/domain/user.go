package domain

import (
	"context"
	"time"
)

// Role determines which side of the marketplace a user is on.
type Role string

const (
	// RoleProvider can list services.
	RoleProvider Role = "provider"
	// RoleGetter can browse and review services.
	RoleGetter Role = "getter"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleProvider || r == RoleGetter
}

// User represents a registered user of the marketplace.
// Contact is an email address or phone number and is unique across users.
// The profile photo, when present, is stored inline as raw bytes.
type User struct {
	ID               string
	Name             string
	Contact          string
	Role             Role
	PasswordHash     string
	PhotoData        []byte
	PhotoContentType string
	CreatedAt        time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByContact(ctx context.Context, contact string) (*User, error)
}
