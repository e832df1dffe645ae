package domain

import (
	"fmt"
	"strings"
)

// Role is the position a user holds in a parent/child link.
type Role int

const (
	RoleParent Role = iota + 1
	RoleChild
)

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "parent":
		return RoleParent, nil
	case "child":
		return RoleChild, nil
	}
	return 0, fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

func (r Role) Valid() bool {
	return r == RoleParent || r == RoleChild
}

// Complement returns the role the other party of a link holds.
func (r Role) Complement() Role {
	switch r {
	case RoleParent:
		return RoleChild
	case RoleChild:
		return RoleParent
	}
	return 0
}

func (r Role) String() string {
	switch r {
	case RoleParent:
		return "parent"
	case RoleChild:
		return "child"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: unknown role %d", ErrValidation, int(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	v, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
