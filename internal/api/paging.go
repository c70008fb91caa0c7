package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultPageLength = 20

// PageState is parsed from the query string: page/p selects the
// 0-based page, len/l its length. Absent or malformed values fall back
// to the defaults.
type PageState struct {
	Page   int
	Length int
}

func pageFromQuery(c *gin.Context) PageState {
	state := PageState{Page: 0, Length: defaultPageLength}

	if raw, ok := firstQuery(c, "len", "l"); ok {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			state.Length = v
		}
	}
	if raw, ok := firstQuery(c, "page", "p"); ok {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			state.Page = v
		}
	}
	return state
}

func firstQuery(c *gin.Context, names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := c.GetQuery(name); ok {
			return v, true
		}
	}
	return "", false
}

func (p PageState) Offset() int {
	return p.Page * p.Length
}

func (p PageState) Limit() int {
	return p.Length
}
