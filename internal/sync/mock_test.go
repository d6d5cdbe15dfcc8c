package sync

import (
	"context"

	"taskdeck/internal/domain"
)

// === Workspace Repository Mock ===

type mockWorkspaceRepo struct {
	listForUserFn func(ctx context.Context, userID string) ([]domain.Workspace, error)
	createFn      func(ctx context.Context, w *domain.Workspace) (*domain.Workspace, error)
	updateFn      func(ctx context.Context, id string, patch domain.WorkspacePatch) (*domain.Workspace, error)
	listMembersFn func(ctx context.Context, workspaceID string) ([]domain.Member, error)
	addMemberFn   func(ctx context.Context, workspaceID string, m *domain.Member) error
}

func (m *mockWorkspaceRepo) ListForUser(ctx context.Context, userID string) ([]domain.Workspace, error) {
	if m.listForUserFn != nil {
		return m.listForUserFn(ctx, userID)
	}
	panic("unexpected call to mockWorkspaceRepo.ListForUser")
}

func (m *mockWorkspaceRepo) Create(ctx context.Context, w *domain.Workspace) (*domain.Workspace, error) {
	if m.createFn != nil {
		return m.createFn(ctx, w)
	}
	panic("unexpected call to mockWorkspaceRepo.Create")
}

func (m *mockWorkspaceRepo) Update(ctx context.Context, id string, patch domain.WorkspacePatch) (*domain.Workspace, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	panic("unexpected call to mockWorkspaceRepo.Update")
}

func (m *mockWorkspaceRepo) ListMembers(ctx context.Context, workspaceID string) ([]domain.Member, error) {
	if m.listMembersFn != nil {
		return m.listMembersFn(ctx, workspaceID)
	}
	panic("unexpected call to mockWorkspaceRepo.ListMembers")
}

func (m *mockWorkspaceRepo) AddMember(ctx context.Context, workspaceID string, member *domain.Member) error {
	if m.addMemberFn != nil {
		return m.addMemberFn(ctx, workspaceID, member)
	}
	panic("unexpected call to mockWorkspaceRepo.AddMember")
}

// === Team Group Repository Mock ===

type mockTeamGroupRepo struct {
	listFn   func(ctx context.Context, workspaceID string) ([]domain.TeamGroup, error)
	createFn func(ctx context.Context, g *domain.TeamGroup) (*domain.TeamGroup, error)
}

func (m *mockTeamGroupRepo) ListForWorkspace(ctx context.Context, workspaceID string) ([]domain.TeamGroup, error) {
	if m.listFn != nil {
		return m.listFn(ctx, workspaceID)
	}
	panic("unexpected call to mockTeamGroupRepo.ListForWorkspace")
}

func (m *mockTeamGroupRepo) Create(ctx context.Context, g *domain.TeamGroup) (*domain.TeamGroup, error) {
	if m.createFn != nil {
		return m.createFn(ctx, g)
	}
	panic("unexpected call to mockTeamGroupRepo.Create")
}

// === Initiative Repository Mock ===

type mockInitiativeRepo struct {
	listFn   func(ctx context.Context, workspaceID string) ([]domain.Initiative, error)
	createFn func(ctx context.Context, in *domain.Initiative) (*domain.Initiative, error)
}

func (m *mockInitiativeRepo) ListForWorkspace(ctx context.Context, workspaceID string) ([]domain.Initiative, error) {
	if m.listFn != nil {
		return m.listFn(ctx, workspaceID)
	}
	panic("unexpected call to mockInitiativeRepo.ListForWorkspace")
}

func (m *mockInitiativeRepo) Create(ctx context.Context, in *domain.Initiative) (*domain.Initiative, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	panic("unexpected call to mockInitiativeRepo.Create")
}

// === Project Repository Mock ===

type mockProjectRepo struct {
	listFn   func(ctx context.Context, workspaceID string) ([]domain.Project, error)
	createFn func(ctx context.Context, p *domain.Project) (*domain.Project, error)
}

func (m *mockProjectRepo) ListForWorkspace(ctx context.Context, workspaceID string) ([]domain.Project, error) {
	if m.listFn != nil {
		return m.listFn(ctx, workspaceID)
	}
	panic("unexpected call to mockProjectRepo.ListForWorkspace")
}

func (m *mockProjectRepo) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	panic("unexpected call to mockProjectRepo.Create")
}

// === Sprint Repository Mock ===

type mockSprintRepo struct {
	listForProjectsFn func(ctx context.Context, projectIDs []string) ([]domain.Sprint, error)
	listForProjectFn  func(ctx context.Context, projectID string) ([]domain.Sprint, error)
	createFn          func(ctx context.Context, s *domain.Sprint) (*domain.Sprint, error)
	updateFn          func(ctx context.Context, id string, patch domain.SprintPatch) (*domain.Sprint, error)
	deleteFn          func(ctx context.Context, id string) error
}

func (m *mockSprintRepo) ListForProjects(ctx context.Context, projectIDs []string) ([]domain.Sprint, error) {
	if m.listForProjectsFn != nil {
		return m.listForProjectsFn(ctx, projectIDs)
	}
	panic("unexpected call to mockSprintRepo.ListForProjects")
}

func (m *mockSprintRepo) ListForProject(ctx context.Context, projectID string) ([]domain.Sprint, error) {
	if m.listForProjectFn != nil {
		return m.listForProjectFn(ctx, projectID)
	}
	panic("unexpected call to mockSprintRepo.ListForProject")
}

func (m *mockSprintRepo) Create(ctx context.Context, s *domain.Sprint) (*domain.Sprint, error) {
	if m.createFn != nil {
		return m.createFn(ctx, s)
	}
	panic("unexpected call to mockSprintRepo.Create")
}

func (m *mockSprintRepo) Update(ctx context.Context, id string, patch domain.SprintPatch) (*domain.Sprint, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	panic("unexpected call to mockSprintRepo.Update")
}

func (m *mockSprintRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	panic("unexpected call to mockSprintRepo.Delete")
}

// === Invite Repository Mock ===

type mockInviteRepo struct {
	listPendingFn func(ctx context.Context, email string) ([]domain.Invite, error)
	createFn      func(ctx context.Context, inv *domain.Invite) (*domain.Invite, error)
	acceptFn      func(ctx context.Context, id string) error
}

func (m *mockInviteRepo) ListPendingForEmail(ctx context.Context, email string) ([]domain.Invite, error) {
	if m.listPendingFn != nil {
		return m.listPendingFn(ctx, email)
	}
	panic("unexpected call to mockInviteRepo.ListPendingForEmail")
}

func (m *mockInviteRepo) Create(ctx context.Context, inv *domain.Invite) (*domain.Invite, error) {
	if m.createFn != nil {
		return m.createFn(ctx, inv)
	}
	panic("unexpected call to mockInviteRepo.Create")
}

func (m *mockInviteRepo) Accept(ctx context.Context, id string) error {
	if m.acceptFn != nil {
		return m.acceptFn(ctx, id)
	}
	panic("unexpected call to mockInviteRepo.Accept")
}

// === Backlog Repository Mock ===

type mockBacklogRepo struct {
	settingsFn     func(ctx context.Context, workspaceID string) (*domain.BacklogSettings, error)
	archiveStaleFn func(ctx context.Context, workspaceID string, staleDays int) (int64, error)
}

func (m *mockBacklogRepo) Settings(ctx context.Context, workspaceID string) (*domain.BacklogSettings, error) {
	if m.settingsFn != nil {
		return m.settingsFn(ctx, workspaceID)
	}
	panic("unexpected call to mockBacklogRepo.Settings")
}

func (m *mockBacklogRepo) ArchiveStale(ctx context.Context, workspaceID string, staleDays int) (int64, error) {
	if m.archiveStaleFn != nil {
		return m.archiveStaleFn(ctx, workspaceID, staleDays)
	}
	panic("unexpected call to mockBacklogRepo.ArchiveStale")
}
