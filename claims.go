package sessions

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims is the claims payload signed into issued access tokens.
type AccessClaims struct {
	jwt.RegisteredClaims
	UID   string   `json:"uid,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// UserID returns the user ID, falling back to the subject claim.
func (c *AccessClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// HasRole checks whether the token carries a specific role.
func (c *AccessClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ensureTokenID populates the jti claim when the caller did not.
func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
