package sessions

import "net/http"

// Result is the tagged outcome returned by every Manager operation: either a
// success carrying a payload, or a failure carrying a status code and a
// message. Expected failure paths never surface as Go errors across the
// package boundary; callers branch on Ok and map Code to their transport.
//
// Message holds the localized (or provider supplied) text and may be empty.
// Details keeps the ordered persistence error descriptions when a directory
// write fails, so the boundary layer can decide how to render them.
type Result[T any] struct {
	Data    T        `json:"data,omitempty"`
	Code    int      `json:"code"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`

	ok bool
}

// Ok reports whether the operation succeeded.
func (r Result[T]) Ok() bool { return r.ok }

// OK builds a success result with http.StatusOK.
func OK[T any](data T, message ...string) Result[T] {
	return Success(data, http.StatusOK, message...)
}

// Success builds a success result with an explicit status code.
func Success[T any](data T, code int, message ...string) Result[T] {
	r := Result[T]{Data: data, Code: code, ok: true}
	if len(message) > 0 {
		r.Message = message[0]
	}
	return r
}

// Fail builds a failure result.
func Fail[T any](code int, message string, details ...string) Result[T] {
	return Result[T]{Code: code, Message: message, Details: details}
}
