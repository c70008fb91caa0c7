package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"knowmark/internal/auth"
	"knowmark/internal/class"
	"knowmark/internal/db"
	"knowmark/internal/problem"
)

func classNotFound(id uuid.UUID) *problem.Problem {
	return problem.New(http.StatusNotFound, "Class doesn't exist.").
		Set("id", id.String())
}

type CreateClassRequest struct {
	Name string `json:"name"`
}

// POST /api/v1/class  [role >= author]
func CreateClassHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.Principal(c)
		if !ok {
			auth.Unauthorized("No authenticated principal.").Render(c)
			return
		}

		var req CreateClassRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			problem.New(http.StatusBadRequest, "Invalid class body.").Render(c)
			return
		}

		cl := class.New(req.Name, principal.User)
		if err := db.DB.WithContext(c.Request.Context()).Create(cl).Error; err != nil {
			problem.From(err).Render(c)
			return
		}
		c.JSON(http.StatusCreated, cl)
	}
}

// GET /api/v1/class/:id  [authenticated]
func GetClassHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			problem.New(http.StatusBadRequest, "Invalid class id.").Render(c)
			return
		}

		var cl class.Class
		fetchErr := db.DB.WithContext(c.Request.Context()).
			Preload("Participants").
			First(&cl, "id = ?", id).Error
		if fetchErr != nil {
			classNotFound(id).Render(c)
			return
		}
		c.JSON(http.StatusOK, cl)
	}
}

type AddParticipantRequest struct {
	Class uuid.UUID  `json:"class"`
	User  uuid.UUID  `json:"user"`
	Role  class.Role `json:"role"`
}

// POST /api/v1/class/participant  [class teacher, or role >= author]
func AddParticipantHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.Principal(c)
		if !ok {
			auth.Unauthorized("No authenticated principal.").Render(c)
			return
		}

		var req AddParticipantRequest
		if err := c.ShouldBindJSON(&req); err != nil || !req.Role.Valid() {
			problem.New(http.StatusBadRequest, "Invalid participant body.").Render(c)
			return
		}

		ctx := c.Request.Context()

		var cl class.Class
		fetchErr := db.DB.WithContext(ctx).
			Preload("Participants").
			First(&cl, "id = ?", req.Class).Error
		if fetchErr != nil {
			classNotFound(req.Class).Render(c)
			return
		}

		// Account-level authors may manage any class; otherwise the
		// principal must teach this one.
		if !principal.Role.CanAuthor() && !teaches(cl, principal.User) {
			auth.Unauthorized("Only the class teacher can add participants.").Render(c)
			return
		}

		p := class.Participant{
			ClassID: cl.ID,
			UserID:  req.User,
			Role:    req.Role,
			Visible: true,
		}
		if err := db.DB.WithContext(ctx).Create(&p).Error; err != nil {
			problem.New(http.StatusBadRequest, "User is already a participant.").Render(c)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func teaches(cl class.Class, userID uuid.UUID) bool {
	for _, p := range cl.Participants {
		if p.UserID == userID && p.Role == class.Teacher {
			return true
		}
	}
	return false
}
