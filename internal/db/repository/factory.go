package repository

import (
	"database/sql"

	"taskdeck/internal/domain"
)

// New wires every SQLite repository onto the write/read pool pair and
// bundles them for the sync controller.
func New(writeDB, readDB *sql.DB) domain.Repositories {
	return domain.Repositories{
		Workspaces:  NewWorkspaceRepo(writeDB, readDB),
		TeamGroups:  NewTeamGroupRepo(writeDB, readDB),
		Initiatives: NewInitiativeRepo(writeDB, readDB),
		Projects:    NewProjectRepo(writeDB, readDB),
		Sprints:     NewSprintRepo(writeDB, readDB),
		Invites:     NewInviteRepo(writeDB, readDB),
		Backlog:     NewBacklogRepo(writeDB, readDB),
	}
}
