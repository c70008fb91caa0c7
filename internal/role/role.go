package role

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is a privilege level. Levels form a strict total order:
// None < Normal < Author < Admin, and gates compare with >=.
type Role uint8

const (
	None Role = iota
	Normal
	Author
	Admin
)

// CanAuthor indicates whether a user with this role can create quizzes.
func (r Role) CanAuthor() bool {
	return r >= Author
}

func (r Role) String() string {
	switch r {
	case None:
		return "none"
	case Normal:
		return "normal"
	case Author:
		return "author"
	case Admin:
		return "admin"
	}
	return "none"
}

// Parse maps a wire name back to a Role. Names are matched
// case-insensitively because tokens issued by older deployments may
// carry capitalized variants.
func Parse(name string) (Role, error) {
	switch strings.ToLower(name) {
	case "none":
		return None, nil
	case "normal":
		return Normal, nil
	case "author":
		return Author, nil
	case "admin":
		return Admin, nil
	}
	return None, fmt.Errorf("unknown role %q", name)
}

// MarshalJSON encodes the role as its lowercase name. The name set and
// the 0-3 integer mapping are part of the token wire contract: issued
// tokens outlive deployments, so neither may change.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := Parse(name)
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	}

	var level uint8
	if err := json.Unmarshal(data, &level); err != nil {
		return fmt.Errorf("role must be a name or integer: %w", err)
	}
	if level > uint8(Admin) {
		return fmt.Errorf("role level %d out of range", level)
	}
	*r = Role(level)
	return nil
}
