package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"knowmark/internal/auth"
	"knowmark/internal/problem"
	"knowmark/internal/role"
	"knowmark/internal/security"
	"knowmark/internal/user"
)

// issueCookie signs a fresh token for u and attaches it to the
// response. Returns false after rendering a problem when signing
// fails.
func issueCookie(c *gin.Context, sec *security.Security, u *user.User) bool {
	cookie, err := auth.NewUserRoleToken(u).Cookie(sec.JWTKeys.Private)
	if err != nil {
		log.Error().Err(err).Msg("unable to sign session token")
		problem.New(http.StatusInternalServerError, "Unable to issue session token.").Render(c)
		return false
	}
	http.SetCookie(c.Writer, cookie)
	return true
}

// POST /api/v1/user
func CreateUserHandler(svc *user.Service, sec *security.Security, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var data user.SignupData
		if err := c.ShouldBindJSON(&data); err != nil {
			problem.New(http.StatusBadRequest, "Invalid signup body.").Render(c)
			return
		}

		u, err := svc.Signup(c.Request.Context(), data)
		if err != nil {
			problem.From(err).Render(c)
			return
		}

		if !issueCookie(c, sec, u) {
			return
		}
		_ = auth.Touch(c.Request.Context(), rdb, u.ID)

		c.JSON(http.StatusOK, u.Public())
	}
}

// POST /api/v1/login
func LoginHandler(svc *user.Service, sec *security.Security, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var data user.LoginData
		if err := c.ShouldBindJSON(&data); err != nil {
			problem.New(http.StatusBadRequest, "Invalid login body.").Render(c)
			return
		}

		u, err := svc.Login(c.Request.Context(), data)
		if err != nil {
			problem.From(err).Render(c)
			return
		}

		if !issueCookie(c, sec, u) {
			return
		}
		_ = auth.Touch(c.Request.Context(), rdb, u.ID)

		c.JSON(http.StatusOK, u.Public())
	}
}

// GET /api/v1/user/:id  [authenticated, role >= normal]
func GetUserHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.Principal(c)
		if !ok {
			auth.Unauthorized("No authenticated principal.").Render(c)
			return
		}
		if principal.Role < role.Normal {
			auth.Unauthorized("Only members can view other users.").Render(c)
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			problem.New(http.StatusBadRequest, "Invalid user id.").Render(c)
			return
		}

		u, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			problem.From(err).Render(c)
			return
		}
		c.JSON(http.StatusOK, u.Public())
	}
}

// DELETE /api/v1/user/:id  [owner or admin]
func DeleteUserHandler(svc *user.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.Principal(c)
		if !ok {
			auth.Unauthorized("No authenticated principal.").Render(c)
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			problem.New(http.StatusBadRequest, "Invalid user id.").Render(c)
			return
		}

		// Ownership check runs after token verification, never before.
		if principal.User != id && principal.Role < role.Admin {
			auth.Unauthorized("Only the user themselves or an admin can delete a user.").Render(c)
			return
		}

		removed, err := svc.Delete(c.Request.Context(), id)
		if err != nil {
			problem.From(err).Render(c)
			return
		}

		if principal.User == id {
			http.SetCookie(c.Writer, auth.ClearCookie())
			_ = auth.Forget(c.Request.Context(), rdb, id)
		}

		c.JSON(http.StatusOK, gin.H{"id": removed.ID})
	}
}
