package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"knowmark/internal/auth"
	"knowmark/internal/db"
	"knowmark/internal/problem"
	"knowmark/internal/quiz"
	"knowmark/internal/role"
)

func quizNotFound(id uuid.UUID) *problem.Problem {
	return problem.New(http.StatusNotFound, "Quiz doesn't exist.").
		Set("id", id.String())
}

// GET /api/v1/quiz
func ListQuizzesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page := pageFromQuery(c)

		var quizzes []quiz.Quiz
		err := db.DB.WithContext(c.Request.Context()).
			Order("created_at").
			Offset(page.Offset()).
			Limit(page.Limit()).
			Find(&quizzes).Error
		if err != nil {
			problem.From(err).Render(c)
			return
		}
		c.JSON(http.StatusOK, quizzes)
	}
}

type CreateQuizRequest struct {
	Name  string      `json:"name"`
	Parts []quiz.Part `json:"parts"`
}

// POST /api/v1/quiz  [role >= author]
func CreateQuizHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.Principal(c)
		if !ok {
			auth.Unauthorized("No authenticated principal.").Render(c)
			return
		}

		var req CreateQuizRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			problem.New(http.StatusBadRequest, "Invalid quiz body.").Render(c)
			return
		}

		q, err := quiz.New(req.Name, principal.User, req.Parts)
		if err != nil {
			problem.New(http.StatusBadRequest, "Invalid quiz parts.").Render(c)
			return
		}

		if err := db.DB.WithContext(c.Request.Context()).Create(q).Error; err != nil {
			problem.From(err).Render(c)
			return
		}
		c.JSON(http.StatusCreated, q)
	}
}

// GET /api/v1/quiz/:id
func GetQuizHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			problem.New(http.StatusBadRequest, "Invalid quiz id.").Render(c)
			return
		}

		var q quiz.Quiz
		if fetchErr := db.DB.WithContext(c.Request.Context()).First(&q, "id = ?", id).Error; fetchErr != nil {
			quizNotFound(id).Render(c)
			return
		}
		c.JSON(http.StatusOK, q)
	}
}

// DELETE /api/v1/quiz/:id  [author of the quiz, or admin]
func DeleteQuizHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.Principal(c)
		if !ok {
			auth.Unauthorized("No authenticated principal.").Render(c)
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			problem.New(http.StatusBadRequest, "Invalid quiz id.").Render(c)
			return
		}

		var q quiz.Quiz
		if fetchErr := db.DB.WithContext(c.Request.Context()).First(&q, "id = ?", id).Error; fetchErr != nil {
			quizNotFound(id).Render(c)
			return
		}

		if principal.Role < role.Admin && q.Author != principal.User {
			auth.Unauthorized("Quiz not owned by user.").Render(c)
			return
		}

		if err := db.DB.WithContext(c.Request.Context()).Delete(&quiz.Quiz{}, "id = ?", id).Error; err != nil {
			problem.From(err).Render(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": q.ID})
	}
}
