package authz

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of viewer roles. Every table in this package is total over it.
type Role int

const (
	RoleUnknown Role = iota
	RoleSuperAdmin
	RoleSchoolAdmin
	RoleStaff
	RoleStudent
	RoleParent
)

var (
	AllRoles = []Role{RoleSuperAdmin, RoleSchoolAdmin, RoleStaff, RoleStudent, RoleParent}

	roleNames = map[Role]string{
		RoleSuperAdmin:  "super_admin",
		RoleSchoolAdmin: "school_admin",
		RoleStaff:       "staff",
		RoleStudent:     "student",
		RoleParent:      "parent",
	}
)

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ParseRole maps a wire role name to a Role. Unknown names are rejected.
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if name == s {
			return role, nil
		}
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal role %d", int(r))
	}
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	role, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// DefaultRoute is where a denied viewer is redirected.
func DefaultRoute(r Role) string {
	switch r {
	case RoleSuperAdmin:
		return "/super-admin"
	case RoleSchoolAdmin:
		return "/dashboard"
	case RoleStaff:
		return "/staff/dashboard"
	case RoleStudent:
		return "/student/dashboard"
	case RoleParent:
		return "/parent/dashboard"
	default:
		return "/login"
	}
}
