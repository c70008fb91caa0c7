package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"knowmark/internal/auth"
	"knowmark/internal/problem"
)

// GET /api/v1/health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/v1/online
func OnlineUsersHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := auth.OnlineUserCount(c.Request.Context(), rdb)
		if err != nil {
			problem.New(http.StatusInternalServerError, "Unable to count online users.").Render(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"online": count})
	}
}
