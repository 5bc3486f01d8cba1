package domain

import (
	"fmt"
	"strings"
)

// Role is the only authorization axis of a user.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

var roles = []Role{RoleEmployee, RoleManager, RoleHR, RoleAdmin}

// Roles lists every valid role, lowest privilege first.
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// ParseRole accepts any case and surrounding whitespace.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range roles {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	return string(r)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// IsPrivileged is true for roles that act as HR.
func (r Role) IsPrivileged() bool {
	return r == RoleHR || r == RoleAdmin
}

// Can asks authz whether r holds perm.
func (r Role) Can(authz Authorizer, perm Permission) bool {
	if authz == nil || !r.Valid() {
		return false
	}
	return authz.Can(r, perm)
}

// Permission is a resource/action pair checked against the policy.
type Permission struct {
	Resource string
	Action   string
}

func (p Permission) String() string {
	return p.Resource + ":" + p.Action
}

type Authorizer interface {
	Can(role Role, perm Permission) bool
}

var (
	PermLeaveRead   = Permission{Resource: "leave_request", Action: "read"}
	PermLeaveCreate = Permission{Resource: "leave_request", Action: "create"}
	PermLeaveDelete = Permission{Resource: "leave_request", Action: "delete"}
	// PermLeaveApprove covers every HR transition, deleting any request and
	// reading everyone's requests.
	PermLeaveApprove = Permission{Resource: "leave_request", Action: "approve"}

	PermBalanceRead     = Permission{Resource: "leave_balance", Action: "read"}
	PermBalanceReadAll  = Permission{Resource: "leave_balance", Action: "read_all"}
	PermBalanceOverride = Permission{Resource: "leave_balance", Action: "override"}

	PermLeaveTypeRead   = Permission{Resource: "leave_type", Action: "read"}
	PermLeaveTypeManage = Permission{Resource: "leave_type", Action: "manage"}

	PermUserManage = Permission{Resource: "user", Action: "manage"}

	PermDepartmentRead   = Permission{Resource: "department", Action: "read"}
	PermDepartmentManage = Permission{Resource: "department", Action: "manage"}

	PermRBACInspect = Permission{Resource: "rbac", Action: "inspect"}
)
