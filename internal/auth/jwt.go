package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"knowmark/internal/role"
	"knowmark/internal/user"
)

// AuthCookieName is the cookie carrying the signed session token.
const AuthCookieName = "jwt_auth"

// TokenLifetime bounds how long a stolen token stays valid: there is
// no revocation list, expiry is the only cut-off.
const TokenLifetime = 7 * 24 * time.Hour

// ErrInvalidToken is the single error every decode failure collapses
// to. Distinguishing bad signature from bad structure from expiry
// would hand an attacker feedback.
var ErrInvalidToken = errors.New("invalid or expired auth token")

// UserRoleToken is the claims payload of a session token. iat and exp
// serialize as integer Unix seconds via RegisteredClaims.
type UserRoleToken struct {
	User uuid.UUID `json:"user"`
	Role role.Role `json:"role"`
	jwt.RegisteredClaims
}

// NewUserRoleToken issues claims for a user: issued now, expiring in
// TokenLifetime.
func NewUserRoleToken(u *user.User) *UserRoleToken {
	now := time.Now().UTC()
	return &UserRoleToken{
		User: u.ID,
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	}
}

// Encode signs the claims with the deployment private key using
// RSA-PSS (PS256).
func (t *UserRoleToken) Encode(privatePEM []byte) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return "", errors.New("user auth private key isn't valid, unable to encode JWT")
	}
	return jwt.NewWithClaims(jwt.SigningMethodPS256, t).SignedString(key)
}

// ParseToken verifies a compact token against the deployment public
// key. The signing method is pinned to PS256: the token's own alg
// header is never trusted, which closes algorithm-confusion attacks.
// Expiry is enforced by the parser independent of the signature check.
func ParseToken(tokenStr string, publicPEM []byte) (*UserRoleToken, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, errors.New("user auth public key isn't valid, unable to decode JWT")
	}

	claims := &UserRoleToken{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodPS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Cookie wraps the encoded token for transport. Secure and HttpOnly
// are mandatory: the token must never be readable from script or sent
// over plaintext.
func (t *UserRoleToken) Cookie(privatePEM []byte) (*http.Cookie, error) {
	encoded, err := t.Encode(privatePEM)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     AuthCookieName,
		Value:    encoded,
		Path:     "/",
		Expires:  t.ExpiresAt.Time,
		Secure:   true,
		HttpOnly: true,
	}, nil
}

// ClearCookie expires the auth cookie, used on self-deletion.
func ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
	}
}
