package sessions

import (
	stderrors "errors"
	"strings"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

const (
	TextCodeAccountNotFound    = "account_not_found"
	TextCodeInvalidCredentials = "invalid_credentials"
	TextCodeEmailExists        = "email_already_exists"
	TextCodeUsernameExists     = "username_already_exists"
	TextCodeStaleSession       = "stale_session"
	TextCodePersistence        = "persistence_failure"
)

// ErrAccountNotFound is returned when no account matches the identifier.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword is returned when a password does not match the
// stored hash. Callers surface it with the same user facing message as a
// missing account so identifiers cannot be enumerated.
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrEmailAlreadyExists is returned on registration when the email is taken.
var ErrEmailAlreadyExists = errors.New("email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeEmailExists).
	WithCode(errors.CodeConflict)

// ErrUsernameAlreadyExists is returned on registration when the username is taken.
var ErrUsernameAlreadyExists = errors.New("username already exists", errors.CategoryConflict).
	WithTextCode(TextCodeUsernameExists).
	WithCode(errors.CodeConflict)

// ErrStaleSession is returned when a refresh token exists but sits outside
// the freshness window.
var ErrStaleSession = errors.New("refresh token outside freshness window", errors.CategoryAuth).
	WithTextCode(TextCodeStaleSession).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString is returned when hashing an empty password.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryBadInput).
	WithTextCode("empty_value").
	WithCode(errors.CodeBadRequest)

// PersistenceError reports a failed directory write. It keeps the ordered
// provider error descriptions discrete; rendering is the boundary's concern.
type PersistenceError struct {
	Op           string
	Descriptions []string
}

// NewPersistenceError wraps one or more provider errors for the given
// operation, preserving encounter order.
func NewPersistenceError(op string, causes ...error) *PersistenceError {
	pe := &PersistenceError{Op: op}
	for _, cause := range causes {
		if cause == nil {
			continue
		}
		pe.Descriptions = append(pe.Descriptions, cause.Error())
	}
	return pe
}

func (e *PersistenceError) Error() string {
	if len(e.Descriptions) == 0 {
		return e.Op + ": persistence failure"
	}
	return e.Op + ": " + strings.Join(e.Descriptions, "; ")
}

// newRecordNotFound builds the not found error directory lookups return when
// no row matches, tagged with lookup metadata for logging.
func newRecordNotFound(metadata map[string]any) error {
	err := errors.New("record not found", errors.CategoryNotFound).
		WithTextCode(TextCodeAccountNotFound).
		WithCode(errors.CodeNotFound)
	if len(metadata) > 0 {
		err = err.WithMetadata(metadata)
	}
	return err
}

// IsNotFound reports whether err represents a missing record, either from
// this package or from the repository layer.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, ErrAccountNotFound) {
		return true
	}
	if repository.IsRecordNotFound(err) {
		return true
	}
	return errors.IsNotFound(err)
}

// ErrorDescriptions extracts the ordered provider descriptions from a
// persistence failure, falling back to the error text.
func ErrorDescriptions(err error) []string {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if stderrors.As(err, &pe) && len(pe.Descriptions) > 0 {
		return append([]string(nil), pe.Descriptions...)
	}
	return []string{err.Error()}
}
