package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"knowmark/internal/auth"
	"knowmark/internal/config"
	"knowmark/internal/db"
	"knowmark/internal/role"
	"knowmark/internal/security"
	"knowmark/internal/user"
)

func SetupRouter(cfg *config.Config, sec *security.Security, rdb *redis.Client) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(), gin.Recovery())

	svc := user.NewService(user.NewGormStore(db.DB), sec.Salt[:], cfg.AdminUsernames)
	authed := auth.Middleware(sec)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthHandler)
		v1.GET("/online", OnlineUsersHandler(rdb))

		// Users
		v1.POST("/user", CreateUserHandler(svc, sec, rdb))
		v1.POST("/login", LoginHandler(svc, sec, rdb))
		v1.GET("/user/:id", authed, GetUserHandler(svc))
		v1.DELETE("/user/:id", authed, DeleteUserHandler(svc, rdb))

		// Quizzes
		v1.GET("/quiz", ListQuizzesHandler())
		v1.GET("/quiz/:id", GetQuizHandler())
		v1.POST("/quiz", authed, auth.RequireRole(role.Author), CreateQuizHandler())
		v1.DELETE("/quiz/:id", authed, DeleteQuizHandler())

		// Classes
		v1.POST("/class", authed, auth.RequireRole(role.Author), CreateClassHandler())
		v1.GET("/class/:id", authed, GetClassHandler())
		v1.POST("/class/participant", authed, AddParticipantHandler())
	}

	// Everything else serves the client bundle from the public
	// content directory, falling back to index.html.
	r.NoRoute(publicContent(cfg.PublicContent))

	return r
}

func publicContent(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Status(http.StatusNotFound)
			return
		}
		rel := strings.TrimPrefix(filepath.Clean(c.Request.URL.Path), "/")
		if strings.HasPrefix(rel, "..") {
			c.Status(http.StatusNotFound)
			return
		}
		full := filepath.Join(dir, rel)
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			c.File(full)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}
