package user

import (
	"net/http"

	"github.com/google/uuid"

	"knowmark/internal/problem"
)

func BadEmail(email, detail string) *problem.Problem {
	return problem.New(http.StatusBadRequest, "Bad email.").
		WithDetail(detail).
		Set("email", email)
}

func BadUsername(username, detail string) *problem.Problem {
	return problem.New(http.StatusBadRequest, "Bad username.").
		WithDetail(detail).
		Set("username", username)
}

func BadPassword(detail string) *problem.Problem {
	return problem.New(http.StatusBadRequest, "Bad password.").
		WithDetail(detail)
}

func NotFound(id uuid.UUID) *problem.Problem {
	return problem.New(http.StatusNotFound, "User doesn't exist.").
		Set("id", id.String())
}

// BadLogin is deliberately identical for "no such user" and "wrong
// password" so login failures can't be used to enumerate accounts.
func BadLogin(isEmail bool) *problem.Problem {
	if isEmail {
		return problem.New(http.StatusUnauthorized, "Bad email or password.")
	}
	return problem.New(http.StatusUnauthorized, "Bad username or password.")
}
