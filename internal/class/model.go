package class

import (
	"time"

	"github.com/google/uuid"
)

// Role is a participant's role within a class, unrelated to the
// account-level privilege roles.
type Role string

const (
	Student   Role = "student"
	Assistant Role = "assistant"
	Teacher   Role = "teacher"
)

func (r Role) Valid() bool {
	switch r {
	case Student, Assistant, Teacher:
		return true
	}
	return false
}

type Class struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string        `gorm:"size:255;not null" json:"name"`
	Participants []Participant `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE" json:"participants"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type Participant struct {
	ClassID uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	Role    Role      `gorm:"type:varchar(10);not null;default:'student'" json:"classRole"`
	// Visible controls whether the participant appears in member
	// listings shown to other students.
	Visible bool `gorm:"not null;default:true" json:"visible"`
}

// New builds a class with the owner enrolled as its teacher.
func New(name string, owner uuid.UUID) *Class {
	id := uuid.New()
	return &Class{
		ID:   id,
		Name: name,
		Participants: []Participant{
			{ClassID: id, UserID: owner, Role: Teacher, Visible: true},
		},
	}
}
