// Package sync owns the client-side synchronization controller: the load
// cascade that populates the entity graph for the signed-in principal, the
// background reconciliation tasks, and the mutation entry points.
//
// The controller is a state machine driven by three events (sign-in,
// workspace selection, project selection), each of which bumps a
// monotonically increasing epoch. Every asynchronous step captures the
// epoch at cascade start and re-checks it before publishing, so a result
// arriving for a superseded selection is discarded instead of overwriting
// newer state.
package sync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"taskdeck/internal/access"
	"taskdeck/internal/cache"
	"taskdeck/internal/domain"
	"taskdeck/internal/graph"
)

// Session is the sync controller for one authenticated principal. All state
// access goes through its mutex; published snapshots are copies.
type Session struct {
	repos  domain.Repositories
	store  *cache.Cache // nil disables local mirroring
	logger *slog.Logger
	now    func() time.Time

	mu   sync.RWMutex
	user domain.User

	workspaces       []domain.Workspace
	currentWorkspace *domain.Workspace
	members          []domain.Member
	teamGroups       []domain.TeamGroup
	currentTeamGroup *domain.TeamGroup
	initiatives      []domain.Initiative
	projects         []domain.Project
	currentProject   *domain.Project
	sprints          []domain.Sprint
	workspaceSprints []domain.Sprint
	currentSprint    *domain.Sprint
	workspaceReady   bool

	// Selection epochs. workspaceEpoch advances on sign-in and workspace
	// selection, projectEpoch on project selection.
	workspaceEpoch uint64
	projectEpoch   uint64

	background sync.WaitGroup
}

// New creates a session bound to the given repositories. store may be nil
// when no local cache directory is configured.
func New(repos domain.Repositories, store *cache.Cache, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		repos:  repos,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// User returns the signed-in principal.
func (s *Session) User() domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Ready reports whether the full workspace load cascade has completed.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspaceReady
}

// WaitBackground blocks until in-flight background tasks (invite
// reconciliation, backlog maintenance) have finished.
func (s *Session) WaitBackground() {
	s.background.Wait()
}

// SignIn runs the sign-in stage for the principal: publish cached state first,
// fetch (auto-provisioning if needed) and publish the workspace list, then
// kick off background invite reconciliation and backlog maintenance before
// cascading into the workspace load.
func (s *Session) SignIn(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	s.resetLocked()
	s.user = user
	s.workspaceEpoch++
	epoch := s.workspaceEpoch
	s.mu.Unlock()

	// Cache-first publish so a restarted client renders instantly.
	cachedSelection := s.publishCached(user, epoch)

	workspaces, err := s.repos.Workspaces.ListForUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(workspaces) == 0 {
		created, err := s.provisionPersonalWorkspace(ctx, user)
		if err != nil {
			return err
		}
		workspaces = []domain.Workspace{*created}
	}

	current := pickWorkspace(workspaces, cachedSelection)

	s.mu.Lock()
	if s.workspaceEpoch != epoch {
		s.mu.Unlock()
		return nil
	}
	s.workspaces = workspaces
	s.currentWorkspace = &current
	s.mu.Unlock()

	s.mirrorWorkspaces(user.ID, workspaces)

	// Background reconciliation must not delay the first publish.
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		s.reconcileInvites(context.WithoutCancel(ctx), user)
	}()
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		for _, w := range workspaces {
			s.runBacklogMaintenance(context.WithoutCancel(ctx), w.ID)
		}
	}()

	return s.SelectWorkspace(ctx, current.ID)
}

// SelectWorkspace runs the workspace load cascade for the given id: the four
// independent fetches are issued together; the sprint fetch strictly
// follows project-list finalization (including default-project creation).
func (s *Session) SelectWorkspace(ctx context.Context, workspaceID string) error {
	s.mu.Lock()
	var selected *domain.Workspace
	for i := range s.workspaces {
		if s.workspaces[i].ID == workspaceID {
			selected = &s.workspaces[i]
			break
		}
	}
	if selected == nil {
		s.mu.Unlock()
		return domain.ErrNotFound("workspace %q is not in the loaded list", workspaceID)
	}
	s.workspaceEpoch++
	epoch := s.workspaceEpoch
	ws := *selected
	s.currentWorkspace = &ws
	s.workspaceReady = false
	s.members, s.teamGroups, s.initiatives, s.projects = nil, nil, nil, nil
	s.currentTeamGroup, s.currentProject, s.currentSprint = nil, nil, nil
	s.sprints, s.workspaceSprints = nil, nil
	user := s.user
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.PutSelection(user.ID, workspaceID); err != nil {
			s.logger.Warn("mirror selection", "workspace", workspaceID, "error", err)
		}
	}

	var (
		members     []domain.Member
		teamGroups  []domain.TeamGroup
		initiatives []domain.Initiative
		projects    []domain.Project
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		members, err = s.repos.Workspaces.ListMembers(gctx, workspaceID)
		return err
	})
	g.Go(func() (err error) {
		teamGroups, err = s.repos.TeamGroups.ListForWorkspace(gctx, workspaceID)
		return err
	})
	g.Go(func() (err error) {
		initiatives, err = s.repos.Initiatives.ListForWorkspace(gctx, workspaceID)
		return err
	})
	g.Go(func() (err error) {
		projects, err = s.repos.Projects.ListForWorkspace(gctx, workspaceID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if s.staleWorkspace(epoch) {
		return nil
	}

	if len(projects) == 0 {
		created, err := s.repos.Projects.Create(ctx, &domain.Project{
			ID:          uuid.NewString(),
			WorkspaceID: workspaceID,
			Name:        domain.DefaultProjectName,
			CreatorID:   user.ID,
		})
		if err != nil {
			return err
		}
		projects = []domain.Project{*created}
	}

	// The sprint fetch depends on the finalized project list. This is the
	// one hard sequencing rule in the cascade.
	projectIDs := make([]string, len(projects))
	for i, p := range projects {
		projectIDs[i] = p.ID
	}
	workspaceSprints, err := s.repos.Sprints.ListForProjects(ctx, projectIDs)
	if err != nil {
		return err
	}

	resolution := access.Resolve(user.ID, members, teamGroups)

	s.mu.Lock()
	if s.workspaceEpoch != epoch {
		s.mu.Unlock()
		return nil
	}
	s.members = members
	s.teamGroups = teamGroups
	s.initiatives = initiatives
	s.projects = projects
	s.workspaceSprints = workspaceSprints
	s.currentTeamGroup = resolution.Scope
	s.workspaceReady = true
	s.mu.Unlock()

	return s.SelectProject(ctx, projects[0].ID)
}

// SelectProject loads the project scope: fetch the project's sprints and select
// the active one as current, else none (the backlog state).
func (s *Session) SelectProject(ctx context.Context, projectID string) error {
	s.mu.Lock()
	var selected *domain.Project
	for i := range s.projects {
		if s.projects[i].ID == projectID {
			selected = &s.projects[i]
			break
		}
	}
	if selected == nil {
		s.mu.Unlock()
		return domain.ErrNotFound("project %q is not in the loaded list", projectID)
	}
	s.projectEpoch++
	wsEpoch, epoch := s.workspaceEpoch, s.projectEpoch
	p := *selected
	s.currentProject = &p
	s.mu.Unlock()

	sprints, err := s.repos.Sprints.ListForProject(ctx, projectID)
	if err != nil {
		return err
	}

	var current *domain.Sprint
	for i := range sprints {
		if sprints[i].Status == domain.SprintActive {
			sp := sprints[i]
			current = &sp
			break
		}
	}

	s.mu.Lock()
	if s.workspaceEpoch != wsEpoch || s.projectEpoch != epoch {
		s.mu.Unlock()
		return nil
	}
	s.sprints = sprints
	s.currentSprint = current
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current graph state.
func (s *Session) Snapshot() graph.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return graph.Snapshot{
		Workspaces:       append([]domain.Workspace(nil), s.workspaces...),
		Workspace:        copyWorkspace(s.currentWorkspace),
		Members:          append([]domain.Member(nil), s.members...),
		TeamGroups:       append([]domain.TeamGroup(nil), s.teamGroups...),
		TeamGroup:        copyTeamGroup(s.currentTeamGroup),
		Initiatives:      append([]domain.Initiative(nil), s.initiatives...),
		Projects:         append([]domain.Project(nil), s.projects...),
		Project:          copyProject(s.currentProject),
		Sprints:          append([]domain.Sprint(nil), s.sprints...),
		WorkspaceSprints: append([]domain.Sprint(nil), s.workspaceSprints...),
		Sprint:           copySprint(s.currentSprint),
		WorkspaceReady:   s.workspaceReady,
	}
}

// Resolution computes the signed-in principal's effective role and scope
// against the loaded workspace.
func (s *Session) Resolution() access.Resolution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return access.Resolve(s.user.ID, s.members, s.teamGroups)
}

// ViewableMemberIDs returns the member ids the principal may view reports
// for.
func (s *Session) ViewableMemberIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := access.Resolve(s.user.ID, s.members, s.teamGroups)
	return access.ViewableIDs(s.user.ID, res, s.members)
}

// AuthorizeReport rejects report requests for members outside the
// principal's viewable set.
func (s *Session) AuthorizeReport(targetID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := access.Resolve(s.user.ID, s.members, s.teamGroups)
	return access.Authorize(s.user.ID, res, s.members, targetID)
}

// resetLocked clears all principal-scoped state. Caller holds mu.
func (s *Session) resetLocked() {
	s.user = domain.User{}
	s.workspaces = nil
	s.currentWorkspace = nil
	s.members, s.teamGroups, s.initiatives, s.projects = nil, nil, nil, nil
	s.currentTeamGroup, s.currentProject, s.currentSprint = nil, nil, nil
	s.sprints, s.workspaceSprints = nil, nil
	s.workspaceReady = false
}

func (s *Session) staleWorkspace(epoch uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspaceEpoch != epoch
}

// publishCached makes the mirrored workspace list visible before the
// network round-trip and returns the mirrored selection, if any.
func (s *Session) publishCached(user domain.User, epoch uint64) string {
	if s.store == nil {
		return ""
	}
	cached, err := s.store.Workspaces(user.ID)
	if err != nil {
		s.logger.Warn("read workspace cache", "user", user.ID, "error", err)
		return ""
	}
	selection, err := s.store.Selection(user.ID)
	if err != nil {
		s.logger.Warn("read selection cache", "user", user.ID, "error", err)
		selection = ""
	}
	if len(cached) == 0 {
		return selection
	}

	current := pickWorkspace(cached, selection)
	s.mu.Lock()
	if s.workspaceEpoch == epoch {
		s.workspaces = cached
		s.currentWorkspace = &current
	}
	s.mu.Unlock()
	return selection
}

func (s *Session) mirrorWorkspaces(userID string, workspaces []domain.Workspace) {
	if s.store == nil {
		return
	}
	if err := s.store.PutWorkspaces(userID, workspaces); err != nil {
		s.logger.Warn("mirror workspaces", "user", userID, "error", err)
	}
}

// provisionPersonalWorkspace creates the default personal workspace for a
// principal with none, with the principal as sole member and owner.
func (s *Session) provisionPersonalWorkspace(ctx context.Context, user domain.User) (*domain.Workspace, error) {
	name := user.DisplayName
	if name == "" {
		name = "Personal"
	}
	return s.repos.Workspaces.Create(ctx, &domain.Workspace{
		ID:        uuid.NewString(),
		Name:      name,
		Kind:      domain.KindPersonal,
		CreatorID: user.ID,
		CreatedAt: s.now(),
		Members: []domain.Member{{
			UserID:      user.ID,
			DisplayName: user.DisplayName,
			Email:       user.Email,
			AvatarURL:   user.AvatarURL,
			Role:        domain.RoleOwner,
			JoinedAt:    s.now(),
		}},
	})
}

// pickWorkspace prefers the mirrored selection when it is still present,
// else the first workspace in the list.
func pickWorkspace(workspaces []domain.Workspace, preferredID string) domain.Workspace {
	if preferredID != "" {
		for _, w := range workspaces {
			if w.ID == preferredID {
				return w
			}
		}
	}
	return workspaces[0]
}

func copyWorkspace(w *domain.Workspace) *domain.Workspace {
	if w == nil {
		return nil
	}
	out := *w
	out.Members = append([]domain.Member(nil), w.Members...)
	return &out
}

func copyTeamGroup(g *domain.TeamGroup) *domain.TeamGroup {
	if g == nil {
		return nil
	}
	out := *g
	out.MemberIDs = append([]string(nil), g.MemberIDs...)
	return &out
}

func copyProject(p *domain.Project) *domain.Project {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

func copySprint(sp *domain.Sprint) *domain.Sprint {
	if sp == nil {
		return nil
	}
	out := *sp
	out.LinkedSprintIDs = append([]string(nil), sp.LinkedSprintIDs...)
	return &out
}
