package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicate is returned by Insert when a unique index rejects the
// row. The check-then-insert sequence in the service is not atomic, so
// a concurrent signup can surface here instead of in the lookups.
var ErrDuplicate = errors.New("user violates a uniqueness constraint")

// Store is the user record collaborator the credential lifecycle
// needs. Lookups return (nil, nil) when no record matches.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Insert(ctx context.Context, u *User) error
	// DeleteByID removes the user and returns the removed record, or
	// (nil, nil) if it didn't exist.
	DeleteByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) findOne(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, "email = ?", email)
}

func (s *GormStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.findOne(ctx, "username = ?", username)
}

func (s *GormStore) Insert(ctx context.Context, u *User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) DeleteByID(ctx context.Context, id uuid.UUID) (*User, error) {
	existing, err := s.FindByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&User{}, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Driver errors differ between postgres and sqlite; match the
	// message the same way the migrations name the indexes.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
