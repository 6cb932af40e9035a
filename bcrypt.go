package sessions

import (
	stderrors "errors"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a bcrypt hash from the plaintext credential.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	return string(hash), nil
}

// ComparePasswordAndHash checks the plaintext against the stored hash. A
// mismatch maps to ErrMismatchedHashAndPassword; any other failure means the
// stored hash itself is unusable.
func ComparePasswordAndHash(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatchedHashAndPassword
	default:
		return errors.Wrap(err, errors.CategoryInternal, "failed to compare password hash")
	}
}

// RandomPasswordHash hashes a random throwaway credential, for filling the
// password column on accounts that never set one.
func RandomPasswordHash() string {
	hash, err := HashPassword(uuid.NewString())
	if err != nil {
		return RandomPasswordHash()
	}

	return hash
}
