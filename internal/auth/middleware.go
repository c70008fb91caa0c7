package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"knowmark/internal/problem"
	"knowmark/internal/role"
	"knowmark/internal/security"
)

const principalKey = "principal"

// Unauthorized is the auth problem returned to clients. The detail
// stays coarse; precise failure reasons go to logs only.
func Unauthorized(detail string) *problem.Problem {
	return problem.New(http.StatusUnauthorized, "Unable to authorize user.").
		WithDetail(detail)
}

// Middleware extracts and verifies the session token from the auth
// cookie and attaches the principal to the request context. Handlers
// behind it can assume a verified principal; everything else fails
// closed with 401.
func Middleware(sec *security.Security) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(AuthCookieName)
		if err != nil {
			Unauthorized("No JWT auth cookie.").Abort(c)
			return
		}

		claims, err := ParseToken(cookie, sec.JWTKeys.Public)
		if err != nil {
			// Reason stays out of the response body to avoid feeding
			// an oracle; the raw cookie value is never logged.
			log.Debug().Msg("auth cookie was malformed or expired")
			Unauthorized("JWT cookie was malformed.").Abort(c)
			return
		}

		log.Trace().Str("user", claims.User.String()).Msg("decoded user role token")
		c.Set(principalKey, claims)
		c.Next()
	}
}

// RequireRole gates a route on a minimum role. It must be installed
// after Middleware: the threshold is only ever compared against a
// verified token.
func RequireRole(min role.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := Principal(c)
		if !ok {
			Unauthorized("No authenticated principal.").Abort(c)
			return
		}
		if principal.Role < min {
			Unauthorized("Permission level too low.").Abort(c)
			return
		}
		c.Next()
	}
}

// Principal returns the verified claims attached by Middleware.
func Principal(c *gin.Context) (*UserRoleToken, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*UserRoleToken)
	return claims, ok
}
