// Package sessions implements the authentication and session lifecycle for a
// multi tenant backend: credential verification, paired access/refresh token
// issuance, refresh token rotation and expiry, and account registration,
// logout, and removal.
//
// The package is transport agnostic. Every operation on Manager returns a
// tagged Result carrying an HTTP style status code and a localized message so
// a web facing API layer can map outcomes without branching on error types.
package sessions
