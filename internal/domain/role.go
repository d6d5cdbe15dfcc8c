package domain

// Role is a workspace member's privilege level. Roles form a total order
// (viewer < triage < member < maintainer < admin < owner) and must be
// compared by hierarchy position via HasLevel, never by string equality.
type Role string

const (
	RoleViewer     Role = "viewer"
	RoleTriage     Role = "triage"
	RoleMember     Role = "member"
	RoleMaintainer Role = "maintainer"
	RoleAdmin      Role = "admin"
	RoleOwner      Role = "owner"
)

// roleRank maps each role to its position in the hierarchy.
var roleRank = map[Role]int{
	RoleViewer:     0,
	RoleTriage:     1,
	RoleMember:     2,
	RoleMaintainer: 3,
	RoleAdmin:      4,
	RoleOwner:      5,
}

// Rank returns the role's position in the hierarchy. Unknown roles rank
// as viewer (least privilege).
func (r Role) Rank() int {
	if rank, ok := roleRank[r]; ok {
		return rank
	}
	return roleRank[RoleViewer]
}

// HasLevel reports whether r sits at or above min in the hierarchy.
func (r Role) HasLevel(min Role) bool {
	return r.Rank() >= min.Rank()
}

// NormalizeRole parses a stored role string, falling back to viewer for
// anything unrecognised.
func NormalizeRole(s string) Role {
	switch Role(s) {
	case RoleViewer, RoleTriage, RoleMember, RoleMaintainer, RoleAdmin, RoleOwner:
		return Role(s)
	default:
		return RoleViewer
	}
}
