package sync

import (
	"context"

	"taskdeck/internal/domain"
)

// UpdateCurrentSprint patches the selected sprint optimistically: local
// state changes immediately, and a failed remote write restores the exact
// pre-mutation snapshot of the current pointer and both sprint lists.
func (s *Session) UpdateCurrentSprint(ctx context.Context, patch domain.SprintPatch) error {
	s.mu.Lock()
	if s.currentSprint == nil {
		s.mu.Unlock()
		return domain.ErrValidation("no sprint is selected")
	}
	id := s.currentSprint.ID
	prevCurrent := copySprint(s.currentSprint)
	prevSprints := append([]domain.Sprint(nil), s.sprints...)
	prevWorkspaceSprints := append([]domain.Sprint(nil), s.workspaceSprints...)
	s.mu.Unlock()

	apply := func() {
		if s.currentSprint != nil && s.currentSprint.ID == id {
			patch.Apply(s.currentSprint)
		}
		patchSprintList(s.sprints, id, patch)
		patchSprintList(s.workspaceSprints, id, patch)
	}
	restore := func() {
		s.currentSprint = prevCurrent
		s.sprints = prevSprints
		s.workspaceSprints = prevWorkspaceSprints
	}
	return s.runOptimistic(apply, restore, func() error {
		_, err := s.repos.Sprints.Update(ctx, id, patch)
		return err
	})
}

// UpdateSprint patches a sprint by id. Unlike the current-sprint path it is
// not optimistic: local state is touched only after the remote write
// succeeds, and failures propagate to the caller with nothing to revert.
// The asymmetry between the two shapes is deliberate.
func (s *Session) UpdateSprint(ctx context.Context, id string, patch domain.SprintPatch) (*domain.Sprint, error) {
	updated, err := s.repos.Sprints.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	replaceSprintInList(s.sprints, updated)
	replaceSprintInList(s.workspaceSprints, updated)
	if s.currentSprint != nil && s.currentSprint.ID == id {
		s.currentSprint = copySprint(updated)
	}
	s.mu.Unlock()
	return updated, nil
}

// CreateSprint creates a sprint remotely, then adds it to local state.
func (s *Session) CreateSprint(ctx context.Context, sp *domain.Sprint) (*domain.Sprint, error) {
	created, err := s.repos.Sprints.Create(ctx, sp)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.workspaceSprints = append(s.workspaceSprints, *created)
	if s.currentProject != nil && s.currentProject.ID == created.ProjectID {
		s.sprints = append(s.sprints, *created)
	}
	s.mu.Unlock()
	return created, nil
}

// DeleteSprint deletes a sprint remotely, then removes it from local state.
// Deleting the selected sprint drops back to the backlog state.
func (s *Session) DeleteSprint(ctx context.Context, id string) error {
	if err := s.repos.Sprints.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.sprints = removeSprintFromList(s.sprints, id)
	s.workspaceSprints = removeSprintFromList(s.workspaceSprints, id)
	if s.currentSprint != nil && s.currentSprint.ID == id {
		s.currentSprint = nil
	}
	s.mu.Unlock()
	return nil
}

// UpdateCurrentWorkspace patches the selected workspace optimistically,
// mirroring the current-sprint shape: full rollback on remote failure.
func (s *Session) UpdateCurrentWorkspace(ctx context.Context, patch domain.WorkspacePatch) error {
	s.mu.Lock()
	if s.currentWorkspace == nil {
		s.mu.Unlock()
		return domain.ErrValidation("no workspace is selected")
	}
	id := s.currentWorkspace.ID
	userID := s.user.ID
	prevCurrent := copyWorkspace(s.currentWorkspace)
	prevList := append([]domain.Workspace(nil), s.workspaces...)
	s.mu.Unlock()

	apply := func() {
		if s.currentWorkspace != nil && s.currentWorkspace.ID == id {
			patch.Apply(s.currentWorkspace)
		}
		for i := range s.workspaces {
			if s.workspaces[i].ID == id {
				patch.Apply(&s.workspaces[i])
			}
		}
	}
	restore := func() {
		s.currentWorkspace = prevCurrent
		s.workspaces = prevList
	}
	err := s.runOptimistic(apply, restore, func() error {
		_, err := s.repos.Workspaces.Update(ctx, id, patch)
		return err
	})
	if err != nil {
		return err
	}

	s.mu.RLock()
	workspaces := append([]domain.Workspace(nil), s.workspaces...)
	s.mu.RUnlock()
	s.mirrorWorkspaces(userID, workspaces)
	return nil
}

func patchSprintList(sprints []domain.Sprint, id string, patch domain.SprintPatch) {
	for i := range sprints {
		if sprints[i].ID == id {
			patch.Apply(&sprints[i])
		}
	}
}

func replaceSprintInList(sprints []domain.Sprint, updated *domain.Sprint) {
	for i := range sprints {
		if sprints[i].ID == updated.ID {
			sprints[i] = *updated
		}
	}
}

func removeSprintFromList(sprints []domain.Sprint, id string) []domain.Sprint {
	out := sprints[:0]
	for _, sp := range sprints {
		if sp.ID != id {
			out = append(out, sp)
		}
	}
	return out
}
