// Package graph provides pure relationship queries over a loaded snapshot
// of the workspace entity graph. Nothing here performs I/O or locking;
// callers supply a consistent snapshot.
package graph

import "taskdeck/internal/domain"

// Snapshot is an immutable view of the currently loaded entity graph plus
// the active selections. The sync controller publishes copies; consumers
// must not mutate them.
type Snapshot struct {
	Workspaces  []domain.Workspace
	Workspace   *domain.Workspace
	Members     []domain.Member
	TeamGroups  []domain.TeamGroup
	TeamGroup   *domain.TeamGroup
	Initiatives []domain.Initiative
	Projects    []domain.Project
	Project     *domain.Project

	// Sprints is scoped to the selected project; WorkspaceSprints spans
	// every project in the selected workspace.
	Sprints          []domain.Sprint
	WorkspaceSprints []domain.Sprint

	// Sprint is the selected sprint; nil means the backlog state.
	Sprint *domain.Sprint

	// WorkspaceReady is set once the workspace load cascade has finished.
	WorkspaceReady bool
}

// ChildSprints returns the sprints under the given parent, in their
// original relative order. It does not filter by kind.
func (s Snapshot) ChildSprints(parentID string) []domain.Sprint {
	return ChildSprints(s.WorkspaceSprints, parentID)
}

// LinkedSprints returns the sprints linked by the given milestone.
func (s Snapshot) LinkedSprints(milestoneID string) []domain.Sprint {
	return LinkedSprints(s.WorkspaceSprints, milestoneID)
}

// ChildSprints filters sprints down to those whose ParentID matches,
// preserving list order.
func ChildSprints(sprints []domain.Sprint, parentID string) []domain.Sprint {
	var out []domain.Sprint
	for _, sp := range sprints {
		if sp.ParentID == parentID && parentID != "" {
			out = append(out, sp)
		}
	}
	return out
}

// LinkedSprints resolves a milestone's linked sprint ids against the list.
// It returns nothing when the id is unknown, names a non-milestone, or the
// milestone has no links. Link order is preserved; ids with no matching
// sprint are silently omitted.
func LinkedSprints(sprints []domain.Sprint, milestoneID string) []domain.Sprint {
	var milestone *domain.Sprint
	for i := range sprints {
		if sprints[i].ID == milestoneID {
			milestone = &sprints[i]
			break
		}
	}
	if milestone == nil || milestone.Kind != domain.SprintKindMilestone || len(milestone.LinkedSprintIDs) == 0 {
		return nil
	}

	byID := make(map[string]domain.Sprint, len(sprints))
	for _, sp := range sprints {
		if sp.ProjectID == milestone.ProjectID {
			byID[sp.ID] = sp
		}
	}

	var out []domain.Sprint
	for _, id := range milestone.LinkedSprintIDs {
		if sp, ok := byID[id]; ok {
			out = append(out, sp)
		}
	}
	return out
}
