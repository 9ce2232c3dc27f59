package models

import "fmt"

// Role is a user's authorization tag. The stored value is the legacy string
// so existing documents keep their meaning.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleManager     Role = "manager"
	RoleMember      Role = "user"
	RoleAddOnly     Role = "add"
	RoleReceiveOnly Role = "receive"
)

// legacyRoles maps every accepted stored string to its role. "member" is an
// alias some clients send for the plain user role.
var legacyRoles = map[string]Role{
	"admin":   RoleAdmin,
	"manager": RoleManager,
	"user":    RoleMember,
	"member":  RoleMember,
	"add":     RoleAddOnly,
	"receive": RoleReceiveOnly,
}

// ParseRole maps a legacy role string to a Role.
func ParseRole(s string) (Role, error) {
	r, ok := legacyRoles[s]
	if !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) String() string { return string(r) }

// IsAdmin reports whether r grants the admin-only routes.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// CanAssign reports whether a user with r is offered as a task assigner.
func (r Role) CanAssign() bool { return r != RoleAdmin && r != RoleReceiveOnly }

// CanReceive reports whether a user with r is offered as a task receiver.
func (r Role) CanReceive() bool { return r != RoleAdmin && r != RoleAddOnly }

// allRoles lists every role in a stable order.
var allRoles = []Role{RoleAdmin, RoleManager, RoleMember, RoleAddOnly, RoleReceiveOnly}

// AssignerExclusions and ReceiverExclusions are the stored role strings left
// out of the two picker listings.
var (
	AssignerExclusions = excluded(Role.CanAssign)
	ReceiverExclusions = excluded(Role.CanReceive)
)

func excluded(allowed func(Role) bool) []string {
	var out []string
	for _, r := range allRoles {
		if !allowed(r) {
			out = append(out, string(r))
		}
	}
	return out
}
