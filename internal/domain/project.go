package domain

// DefaultProjectName is the name given to the project auto-created for a
// workspace that has none.
const DefaultProjectName = "General"

// Project groups sprints within a workspace, optionally attached to a team
// group and an initiative.
type Project struct {
	ID           string
	WorkspaceID  string
	Name         string
	Color        string
	TeamGroupID  string // empty when not owned by a team group
	InitiativeID string // empty when not part of an initiative
	CreatorID    string
}
