package problem

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Problem is an RFC 7807 problem document. Handlers return or render
// one of these for every client-visible failure so response shapes
// stay uniform across the API.
type Problem struct {
	Status int
	Type   string
	Title  string
	Detail string

	// Extension members, merged into the response body.
	fields map[string]any
}

// New builds an untyped problem ("about:blank") with the given status
// and title.
func New(status int, title string) *Problem {
	return &Problem{
		Status: status,
		Type:   "about:blank",
		Title:  title,
	}
}

func (p *Problem) WithDetail(detail string) *Problem {
	p.Detail = detail
	return p
}

// Set attaches an extension member to the response body.
func (p *Problem) Set(key string, value any) *Problem {
	if p.fields == nil {
		p.fields = map[string]any{}
	}
	p.fields[key] = value
	return p
}

func (p *Problem) Error() string {
	return fmt.Sprintf("%d: %s", p.Status, p.Title)
}

// Body assembles the members required by RFC 7807 plus extensions.
func (p *Problem) Body() gin.H {
	body := gin.H{
		"type":   p.Type,
		"title":  p.Title,
		"status": p.Status,
	}
	if p.Detail != "" {
		body["detail"] = p.Detail
	}
	for k, v := range p.fields {
		body[k] = v
	}
	return body
}

// Render writes the problem as the response. The Content-Type is set
// before c.JSON so gin keeps application/problem+json.
func (p *Problem) Render(c *gin.Context) {
	c.Header("Content-Type", "application/problem+json")
	c.JSON(p.Status, p.Body())
}

// Abort renders the problem and stops the handler chain. Used by
// middleware rejections.
func (p *Problem) Abort(c *gin.Context) {
	p.Render(c)
	c.Abort()
}

// From maps an arbitrary error to a problem: a *Problem passes
// through, anything else collapses to an opaque 500 so raw driver
// errors never leak to clients.
func From(err error) *Problem {
	if p, ok := err.(*Problem); ok {
		return p
	}
	return New(http.StatusInternalServerError, "Internal server error.")
}
