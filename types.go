package sessions

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
}

// TokenPair is the ephemeral outcome of a successful authentication event.
// Only the refresh token value is ever persisted, on the Account.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Directory is the external store of accounts and credentials. Lookups return
// a not found error (see IsNotFound) when no account matches; writes wrap
// provider failures in a PersistenceError.
type Directory interface {
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByRefreshToken(ctx context.Context, value string) (*Account, error)

	// VerifyPassword checks the plaintext against the stored hash. It has no
	// lockout side effects; login throttling is not tracked at this layer.
	VerifyPassword(ctx context.Context, account *Account, plaintext string) bool

	// Create hashes the plaintext credential and persists the new account.
	Create(ctx context.Context, account *Account, plaintext string) error
	// Update persists the account's refresh token state.
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, account *Account) error

	// Roles returns the role names granted to the account, primary role included.
	Roles(ctx context.Context, account *Account) ([]string, error)

	List(ctx context.Context) ([]*Account, error)
}

// TokenSigner produces the access token for an identity and role set. The
// refresh token value and its entropy are the signer's responsibility.
type TokenSigner interface {
	Issue(ctx context.Context, identity Identity, roles []string) (TokenPair, error)
}

// Localizer maps a message key and locale to human readable text.
type Localizer interface {
	Get(key, locale string) string
}

// Config holds signer options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSIONS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSIONS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSIONS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
