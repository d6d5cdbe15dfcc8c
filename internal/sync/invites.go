package sync

import (
	"context"

	"taskdeck/internal/domain"
)

// reconcileInvites processes every pending invitation addressed to the
// principal's email: join the referenced workspace, mark the invite
// accepted. A failure on any single invite is swallowed (already-joined
// and transient failures are indistinguishable, both are ignored) and must
// not block the remaining invites. After processing, the workspace list is
// re-fetched and republished once.
func (s *Session) reconcileInvites(ctx context.Context, user domain.User) {
	invites, err := s.repos.Invites.ListPendingForEmail(ctx, user.Email)
	if err != nil {
		s.logger.Warn("list pending invites", "user", user.ID, "error", err)
		return
	}
	if len(invites) == 0 {
		return
	}

	for _, inv := range invites {
		err := s.repos.Workspaces.AddMember(ctx, inv.WorkspaceID, &domain.Member{
			UserID:      user.ID,
			DisplayName: user.DisplayName,
			Email:       user.Email,
			AvatarURL:   user.AvatarURL,
			Role:        domain.RoleMember,
			JoinedAt:    s.now(),
		})
		if err != nil {
			s.logger.Debug("join by invite", "invite", inv.ID, "workspace", inv.WorkspaceID, "error", err)
			continue
		}
		if err := s.repos.Invites.Accept(ctx, inv.ID); err != nil {
			s.logger.Warn("accept invite", "invite", inv.ID, "error", err)
		}
	}

	workspaces, err := s.repos.Workspaces.ListForUser(ctx, user.ID)
	if err != nil {
		s.logger.Warn("refetch workspaces after invites", "user", user.ID, "error", err)
		return
	}
	if len(workspaces) == 0 {
		return
	}

	// Republish unless the principal changed while we were working. The
	// current selection is kept when it survived the refetch.
	s.mu.Lock()
	if s.user.ID != user.ID {
		s.mu.Unlock()
		return
	}
	preferred := ""
	if s.currentWorkspace != nil {
		preferred = s.currentWorkspace.ID
	}
	current := pickWorkspace(workspaces, preferred)
	s.workspaces = workspaces
	s.currentWorkspace = &current
	s.mu.Unlock()

	s.mirrorWorkspaces(user.ID, workspaces)
}
