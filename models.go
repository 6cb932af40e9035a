package sessions

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountRoleName is a named role granted to an account
type AccountRoleName = string

const (
	// RoleGuest is a guest role (ie. view)
	RoleGuest AccountRoleName = "guest"
	// RoleMember is a member (i.e. view, edit)
	RoleMember AccountRoleName = "member"
	// RoleAdmin is an admin role (i.e. view, edit, create)
	RoleAdmin AccountRoleName = "admin"
	// RoleOwner is an owner role (i.e. view, edit, create, delete)
	RoleOwner AccountRoleName = "owner"
)

// Account is the registered user model. RefreshToken and
// RefreshTokenExpiresAt are either both set or both NULL; the Directory
// persists them together and the Manager never writes one without the other.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acct"`

	ID                    uuid.UUID       `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role                  AccountRoleName `bun:"user_role,notnull" json:"user_role,omitempty"`
	FirstName             string          `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName              string          `bun:"last_name,notnull" json:"last_name,omitempty"`
	Username              string          `bun:"username,notnull,unique" json:"username,omitempty"`
	Email                 string          `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone                 string          `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash          string          `bun:"password_hash" json:"-"`
	RefreshToken          *string         `bun:"refresh_token" json:"-"`
	RefreshTokenExpiresAt *time.Time      `bun:"refresh_token_expires_at" json:"-"`
	CreatedAt             *time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt             *time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt             *time.Time      `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// HasActiveSession reports whether the account currently holds a refresh token.
func (a *Account) HasActiveSession() bool {
	return a.RefreshToken != nil && a.RefreshTokenExpiresAt != nil
}

// ClearSession drops the stored refresh token state. Safe to call when no
// session is set, which keeps Logout idempotent.
func (a *Account) ClearSession() {
	a.RefreshToken = nil
	a.RefreshTokenExpiresAt = nil
}

// SetSession stores a refresh token together with its expiry.
func (a *Account) SetSession(token string, expiresAt time.Time) {
	a.RefreshToken = &token
	a.RefreshTokenExpiresAt = &expiresAt
}

// AccountRole maps an account to a granted role name. The primary role lives
// on the Account row; additional grants live here.
type AccountRole struct {
	bun.BaseModel `bun:"table:account_roles,alias:acctr"`

	ID        uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AccountID uuid.UUID  `bun:"account_id,notnull,type:uuid" json:"account_id,omitempty"`
	Role      string     `bun:"role_name,notnull" json:"role_name,omitempty"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// PublicAccount is the projection returned by ListUsers. It never carries
// credential or session material.
type PublicAccount struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PublicProfile projects the account into its public safe shape.
func (a *Account) PublicProfile() PublicAccount {
	return PublicAccount{
		ID:       a.ID.String(),
		Username: a.Username,
		Email:    a.Email,
	}
}

// IsValidRole checks the role against the predefined set.
func IsValidRole(role AccountRoleName) bool {
	switch role {
	case RoleGuest, RoleMember, RoleAdmin, RoleOwner:
		return true
	default:
		return false
	}
}
