//go:build race

package sessions

import "golang.org/x/crypto/bcrypt"

// Race-enabled builds run bcrypt an order of magnitude slower, so drop to the
// default cost to keep test timeouts realistic.
func passwordHashCost() int {
	return bcrypt.DefaultCost
}
