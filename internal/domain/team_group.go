package domain

// TeamGroup is a named sub-team within a workspace. It carries weight mainly
// for organization-kind workspaces, where it scopes visibility for
// maintainers and team leads.
type TeamGroup struct {
	ID          string
	WorkspaceID string
	Name        string
	Color       string
	LeaderID    string // empty when the group has no designated lead
	MemberIDs   []string
}

// HasMember reports whether the given user id is in the group's member set.
func (g *TeamGroup) HasMember(userID string) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Initiative is a higher-level grouping referenced by zero or more projects.
type Initiative struct {
	ID          string
	WorkspaceID string
	Name        string
}
