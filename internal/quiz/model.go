package quiz

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Part kinds mirror the wire contract of quiz documents.
const (
	PartContent  = "content"
	PartQuestion = "question"
)

// Question kinds. Only boolean questions are implemented; the part
// format leaves room for more.
const (
	QuestionBool = "bool"
)

// Part is one element of a quiz: either prose content or a question.
type Part struct {
	ID    uuid.UUID `json:"id"`
	Kind  string    `json:"kind"`
	Title string    `json:"title,omitempty"`
	Text  string    `json:"text"`

	Question *Question `json:"question,omitempty"`
}

type Question struct {
	Kind   string `json:"kind"`
	Answer bool   `json:"answer"`

	// TimeLimit in seconds; zero means unlimited.
	TimeLimit int `json:"timeLimit,omitempty"`
	// Partial allows submitting incomplete answers.
	Partial bool `json:"partial,omitempty"`
}

// Quiz stores its parts as a single JSON document column; parts are
// read and written as a unit, never queried field-by-field.
type Quiz struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Author    uuid.UUID      `gorm:"type:uuid;index;not null" json:"author"`
	Parts     datatypes.JSON `json:"parts"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// New builds a quiz owned by author with a fresh random id.
func New(name string, author uuid.UUID, parts []Part) (*Quiz, error) {
	doc, err := json.Marshal(parts)
	if err != nil {
		return nil, err
	}
	return &Quiz{
		ID:     uuid.New(),
		Name:   name,
		Author: author,
		Parts:  datatypes.JSON(doc),
	}, nil
}

// DecodeParts unpacks the JSON parts column.
func (q *Quiz) DecodeParts() ([]Part, error) {
	if len(q.Parts) == 0 {
		return nil, nil
	}
	var parts []Part
	if err := json.Unmarshal(q.Parts, &parts); err != nil {
		return nil, err
	}
	return parts, nil
}
