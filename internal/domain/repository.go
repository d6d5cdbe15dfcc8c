package domain

import "context"

// WorkspaceRepository provides workspace and membership operations.
type WorkspaceRepository interface {
	ListForUser(ctx context.Context, userID string) ([]Workspace, error)
	Create(ctx context.Context, w *Workspace) (*Workspace, error)
	Update(ctx context.Context, id string, patch WorkspacePatch) (*Workspace, error)
	ListMembers(ctx context.Context, workspaceID string) ([]Member, error)
	// AddMember joins a user to a workspace. Adding an existing member
	// returns a ConflictError.
	AddMember(ctx context.Context, workspaceID string, m *Member) error
}

// TeamGroupRepository provides team group operations within a workspace.
type TeamGroupRepository interface {
	ListForWorkspace(ctx context.Context, workspaceID string) ([]TeamGroup, error)
	Create(ctx context.Context, g *TeamGroup) (*TeamGroup, error)
}

// InitiativeRepository provides initiative operations within a workspace.
type InitiativeRepository interface {
	ListForWorkspace(ctx context.Context, workspaceID string) ([]Initiative, error)
	Create(ctx context.Context, in *Initiative) (*Initiative, error)
}

// ProjectRepository provides project operations within a workspace.
type ProjectRepository interface {
	ListForWorkspace(ctx context.Context, workspaceID string) ([]Project, error)
	Create(ctx context.Context, p *Project) (*Project, error)
}

// SprintRepository provides sprint operations. Updates are field-level
// partial updates, last-write-wins.
type SprintRepository interface {
	ListForProjects(ctx context.Context, projectIDs []string) ([]Sprint, error)
	ListForProject(ctx context.Context, projectID string) ([]Sprint, error)
	Create(ctx context.Context, s *Sprint) (*Sprint, error)
	Update(ctx context.Context, id string, patch SprintPatch) (*Sprint, error)
	Delete(ctx context.Context, id string) error
}

// InviteRepository provides pending-invitation lookup and acceptance.
type InviteRepository interface {
	ListPendingForEmail(ctx context.Context, email string) ([]Invite, error)
	Create(ctx context.Context, inv *Invite) (*Invite, error)
	Accept(ctx context.Context, id string) error
}

// BacklogRepository provides per-workspace backlog maintenance.
type BacklogRepository interface {
	Settings(ctx context.Context, workspaceID string) (*BacklogSettings, error)
	// ArchiveStale archives backlog sprints untouched for more than
	// staleDays days and returns how many were archived.
	ArchiveStale(ctx context.Context, workspaceID string, staleDays int) (int64, error)
}

// Repositories bundles every repository interface the sync controller
// depends on; the concrete transport behind them is a collaborator concern.
type Repositories struct {
	Workspaces  WorkspaceRepository
	TeamGroups  TeamGroupRepository
	Initiatives InitiativeRepository
	Projects    ProjectRepository
	Sprints     SprintRepository
	Invites     InviteRepository
	Backlog     BacklogRepository
}
