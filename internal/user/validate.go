package user

import (
	"strings"

	"github.com/google/uuid"
)

// Validation bounds are part of the external contract; clients and
// compatibility tests depend on the exact limits.
const (
	usernameMinLen = 5
	usernameMaxLen = 32

	signupPasswordMinLen = 8 // exclusive
	signupPasswordMaxLen = 1024

	loginPasswordMinLen = 8
	loginPasswordMaxLen = 50
)

type SignupData struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ID returns the deterministic id this signup would create.
func (d SignupData) ID() uuid.UUID {
	return DeterministicID(d.Email, d.Username)
}

// Validate checks input shape only; uniqueness is the store's concern.
// All lengths are byte lengths.
func (d SignupData) Validate() error {
	if !strings.Contains(d.Email, "@") {
		return BadEmail(d.Email, "Not a valid e-mail address.")
	}
	if len(d.Username) < usernameMinLen {
		return BadUsername(d.Username, "Username must be at least 5 characters (bytes) long.")
	}
	if len(d.Username) > usernameMaxLen {
		return BadUsername(d.Username, "Username can't be longer than 32 characters (bytes).")
	}
	if len(d.Password) <= signupPasswordMinLen {
		return BadPassword("Password must be at least 8 characters (bytes) long.")
	}
	if len(d.Password) > signupPasswordMaxLen {
		return BadPassword("Passwords longer than 1024 characters aren't supported.")
	}
	return nil
}

type LoginData struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// IsEmail classifies the identifier; anything containing '@' is
// treated as an email address, otherwise as a username.
func (d LoginData) IsEmail() bool {
	return strings.Contains(d.Identifier, "@")
}

// Validate rejects out-of-bounds input with the same generic problem
// as a failed login, so shape errors are not an enumeration oracle.
func (d LoginData) Validate(isEmail bool) error {
	if len(d.Identifier) < usernameMinLen ||
		len(d.Identifier) > usernameMaxLen ||
		len(d.Password) < loginPasswordMinLen ||
		len(d.Password) > loginPasswordMaxLen {
		return BadLogin(isEmail)
	}
	return nil
}
