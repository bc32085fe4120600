package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's platform-wide role
type UserRole = string

const (
	// RoleUser is an ordinary registered user
	RoleUser UserRole = "user"
	// RoleAdmin may manage any user and any resource
	RoleAdmin UserRole = "admin"
)

// IsValidRole checks the role against the two defined roles. There is no
// hierarchy: policy checks use exact equality.
func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role          UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureRole defaults the role to user so records created outside the
// registration flow still satisfy policy checks.
func (u *User) EnsureRole() {
	if u == nil {
		return
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
}

// Resource is the ownership descriptor for a protected resource. It carries
// the minimum the ownership policy needs; the resource store that produced it
// remains the source of truth for everything else.
type Resource struct {
	// Kind names the resource collection, e.g. "publication" or "comment"
	Kind string
	// ID is the resource identifier inside its collection
	ID string
	// OwnerID is the user id of the resource's author
	OwnerID string
}
