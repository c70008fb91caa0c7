package user

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"knowmark/internal/problem"
	"knowmark/internal/role"
)

// Service coordinates the credential lifecycle: signup, login and
// deletion. It owns no mutable state of its own; every user record
// lives in the store, and the salt is the immutable process salt.
type Service struct {
	store      Store
	salt       []byte
	adminNames []string
}

func NewService(store Store, salt []byte, adminNames []string) *Service {
	return &Service{store: store, salt: salt, adminNames: adminNames}
}

// Signup creates a user, or treats the request as an idempotent login
// when the email is already registered with a matching password. The
// returned user is persisted and safe to issue a token for.
func (s *Service) Signup(ctx context.Context, data SignupData) (*User, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.store.FindByEmail(ctx, data.Email)
	if err != nil {
		return nil, storeProblem("find user by email", err)
	}
	if existing != nil {
		hash, err := NewPasswordHash(data.Password, s.salt)
		if err != nil {
			return nil, storeProblem("hash password", err)
		}
		if existing.PasswordHash.Equal(hash) {
			// Re-signup with the same credentials returns the
			// existing account instead of erroring.
			return existing, nil
		}
		return nil, BadEmail(data.Email, "Email already registered.")
	}

	taken, err := s.store.FindByUsername(ctx, data.Username)
	if err != nil {
		return nil, storeProblem("find user by username", err)
	}
	if taken != nil {
		return nil, BadUsername(data.Username, "Username already used.")
	}

	u, err := New(data.Email, data.Username, data.Password, s.salt)
	if err != nil {
		return nil, storeProblem("hash password", err)
	}

	// Promotion happens at creation time only; renaming a user to an
	// allow-listed name later does not grant admin.
	if slices.Contains(s.adminNames, u.Username) {
		u.Role = role.Admin
	}

	if err := s.store.Insert(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Lost the race against a concurrent signup; the unique
			// indexes are the backstop for our non-atomic checks.
			return nil, BadUsername(data.Username, "Username already used.")
		}
		return nil, storeProblem("insert user", err)
	}
	return u, nil
}

// Login verifies the identifier/password pair. Unknown identifier and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, data LoginData) (*User, error) {
	isEmail := data.IsEmail()
	if err := data.Validate(isEmail); err != nil {
		return nil, err
	}

	var u *User
	var err error
	if isEmail {
		u, err = s.store.FindByEmail(ctx, data.Identifier)
	} else {
		u, err = s.store.FindByUsername(ctx, data.Identifier)
	}
	if err != nil {
		return nil, storeProblem("find user for login", err)
	}
	if u == nil {
		return nil, BadLogin(isEmail)
	}

	hash, err := NewPasswordHash(data.Password, s.salt)
	if err != nil {
		return nil, storeProblem("hash password", err)
	}
	if !u.PasswordHash.Equal(hash) {
		return nil, BadLogin(isEmail)
	}
	return u, nil
}

// Get fetches a user by id, mapping absence to a 404 problem.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, storeProblem("find user by id", err)
	}
	if u == nil {
		return nil, NotFound(id)
	}
	return u, nil
}

// Delete removes the user and returns the removed record. The caller
// is responsible for the owner-or-admin authorization check.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*User, error) {
	removed, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return nil, storeProblem("delete user", err)
	}
	if removed == nil {
		return nil, NotFound(id)
	}
	return removed, nil
}

// storeProblem logs the failing operation (never the payload) and
// hides the driver error behind an opaque 500.
func storeProblem(op string, err error) *problem.Problem {
	log.Error().Err(err).Str("op", op).Msg("user store operation failed")
	return problem.From(errors.New(op))
}
