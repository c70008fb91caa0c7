package user

import (
	"crypto/sha256"
	"crypto/subtle"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/dchest/bcrypt_pbkdf"

	"knowmark/internal/role"
)

// HashSize is the stored password hash length in bytes.
const HashSize = 24

// hashRounds controls how slow password hashing is. Changing it
// invalidates every stored hash, so treat it like the salt: fixed for
// the lifetime of a deployment.
const hashRounds = 32

// PasswordHash is the irreversible, fixed-size derivative of a
// password under the process salt. Identical (password, salt) pairs
// always produce identical hashes, which is what makes login
// comparison and idempotent re-signup work.
type PasswordHash [HashSize]byte

// NewPasswordHash derives the hash: a SHA-256 prehash normalizes the
// variable-length input, then bcrypt_pbkdf stretches the digest under
// the deployment-wide salt.
func NewPasswordHash(password string, salt []byte) (PasswordHash, error) {
	var out PasswordHash

	digest := sha256.Sum256([]byte(password))
	key, err := bcrypt_pbkdf.Key(digest[:], salt, hashRounds, HashSize)
	if err != nil {
		return out, fmt.Errorf("unable to derive password hash: %w", err)
	}
	copy(out[:], key)
	return out, nil
}

// Equal compares hashes in constant time.
func (h PasswordHash) Equal(other PasswordHash) bool {
	return subtle.ConstantTimeCompare(h[:], other[:]) == 1
}

func (h PasswordHash) Value() (driver.Value, error) {
	return h[:], nil
}

func (h *PasswordHash) Scan(src any) error {
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("password hash column has unexpected type %T", src)
	}
	if len(raw) != HashSize {
		return fmt.Errorf("password hash column is %d bytes, expected %d", len(raw), HashSize)
	}
	copy(h[:], raw)
	return nil
}

func (PasswordHash) GormDataType() string {
	return "bytes"
}

// DeterministicID derives the user id from the identity pair. Repeated
// signups with the same email and username always map to the same id,
// so an attacker cannot mint two accounts for one identity.
func DeterministicID(email, username string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(email+username))
}

type User struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string       `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username     string       `gorm:"uniqueIndex;size:32;not null" json:"username"`
	PasswordHash PasswordHash `gorm:"not null" json:"-"`
	Role         role.Role    `gorm:"not null;default:1" json:"role"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// New hashes the password and builds a Normal-role user with the
// deterministic id.
func New(email, username, password string, salt []byte) (*User, error) {
	hash, err := NewPasswordHash(password, salt)
	if err != nil {
		return nil, err
	}

	id := DeterministicID(email, username)
	log.Info().Str("user", id.String()).Msg("creating a new user")

	return &User{
		ID:           id,
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         role.Normal,
	}, nil
}

// Public is the client-safe view of a user. The email and hash never
// leave the server.
type Public struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     role.Role `json:"role"`
}

func (u *User) Public() Public {
	return Public{ID: u.ID, Username: u.Username, Role: u.Role}
}
