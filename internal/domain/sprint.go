package domain

// SprintKind distinguishes the three shapes of the sprint entity: plain
// sprints, phases that group sprints via ParentID, and milestones that
// reference a set of sprints/phases via LinkedSprintIDs.
type SprintKind string

const (
	SprintKindSprint    SprintKind = "sprint"
	SprintKindPhase     SprintKind = "phase"
	SprintKindMilestone SprintKind = "milestone"
)

// SprintStatus is the lifecycle state of a sprint.
type SprintStatus string

const (
	SprintPlanning  SprintStatus = "planning"
	SprintActive    SprintStatus = "active"
	SprintCompleted SprintStatus = "completed"
)

// Sprint is a work iteration under a project.
//
// ParentID, when set, references a phase in the same project.
// LinkedSprintIDs is meaningful only for milestones and must reference
// non-milestone sprints in the same project. Both constraints are enforced
// at the write boundary, not at read time.
type Sprint struct {
	ID              string
	ProjectID       string
	Name            string
	Kind            SprintKind
	Status          SprintStatus
	Order           int
	ParentID        string // empty when top-level
	LinkedSprintIDs []string
}

// SprintPatch is a field-level partial update for a sprint. Nil fields are
// left untouched; writes are last-write-wins.
type SprintPatch struct {
	Name            *string
	Status          *SprintStatus
	Order           *int
	ParentID        *string
	LinkedSprintIDs *[]string
}

// Apply copies the patch's set fields onto the sprint.
func (p SprintPatch) Apply(s *Sprint) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.Order != nil {
		s.Order = *p.Order
	}
	if p.ParentID != nil {
		s.ParentID = *p.ParentID
	}
	if p.LinkedSprintIDs != nil {
		s.LinkedSprintIDs = *p.LinkedSprintIDs
	}
}

// ValidateSprintWrite enforces the parent and link invariants for a sprint
// about to be written, given the other sprints already in its project.
func ValidateSprintWrite(s *Sprint, projectSprints []Sprint) error {
	switch s.Kind {
	case SprintKindSprint, SprintKindPhase, SprintKindMilestone:
	default:
		return ErrValidation("unknown sprint kind %q", s.Kind)
	}
	switch s.Status {
	case SprintPlanning, SprintActive, SprintCompleted:
	default:
		return ErrValidation("unknown sprint status %q", s.Status)
	}

	byID := make(map[string]Sprint, len(projectSprints))
	for _, existing := range projectSprints {
		byID[existing.ID] = existing
	}

	if s.ParentID != "" {
		parent, ok := byID[s.ParentID]
		if !ok {
			return ErrValidation("parent sprint %q not found in project %q", s.ParentID, s.ProjectID)
		}
		if parent.Kind != SprintKindPhase {
			return ErrValidation("parent sprint %q must be a phase, is %q", s.ParentID, parent.Kind)
		}
	}

	if len(s.LinkedSprintIDs) > 0 {
		if s.Kind != SprintKindMilestone {
			return ErrValidation("only milestones may link sprints")
		}
		for _, id := range s.LinkedSprintIDs {
			linked, ok := byID[id]
			if !ok {
				return ErrValidation("linked sprint %q not found in project %q", id, s.ProjectID)
			}
			if linked.Kind == SprintKindMilestone {
				return ErrValidation("milestone %q may not link another milestone (%q)", s.ID, id)
			}
		}
	}
	return nil
}
