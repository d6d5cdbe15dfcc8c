package domain

import "time"

// WorkspaceKind distinguishes the three workspace flavours.
type WorkspaceKind string

const (
	KindPersonal     WorkspaceKind = "personal"
	KindTeam         WorkspaceKind = "team"
	KindOrganization WorkspaceKind = "organization"
)

// Workspace is the top-level tenant owning members, team groups, projects
// and initiatives.
type Workspace struct {
	ID         string
	Name       string
	Color      string
	Kind       WorkspaceKind
	Members    []Member
	CreatorID  string
	InviteCode string
	CreatedAt  time.Time
}

// Member records a user's membership of a workspace. Members are unique by
// UserID within a workspace.
type Member struct {
	UserID      string
	DisplayName string
	Email       string
	AvatarURL   string
	Role        Role
	JoinedAt    time.Time
}

// WorkspacePatch is a field-level partial update. Nil fields are left
// untouched; writes are last-write-wins.
type WorkspacePatch struct {
	Name       *string
	Color      *string
	InviteCode *string
}

// Apply copies the patch's set fields onto the workspace.
func (p WorkspacePatch) Apply(w *Workspace) {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.Color != nil {
		w.Color = *p.Color
	}
	if p.InviteCode != nil {
		w.InviteCode = *p.InviteCode
	}
}

// ValidateNewWorkspace enforces the create-time invariants: a workspace must
// be created with exactly one member holding the owner role, and member
// user ids must be unique. The invariant is not re-checked on later writes.
func ValidateNewWorkspace(w *Workspace) error {
	if w.Name == "" {
		return ErrValidation("workspace name is required")
	}
	switch w.Kind {
	case KindPersonal, KindTeam, KindOrganization:
	default:
		return ErrValidation("unknown workspace kind %q", w.Kind)
	}

	owners := 0
	seen := map[string]bool{}
	for _, m := range w.Members {
		if seen[m.UserID] {
			return ErrValidation("duplicate member %q", m.UserID)
		}
		seen[m.UserID] = true
		if m.Role == RoleOwner {
			owners++
		}
	}
	if owners != 1 {
		return ErrValidation("workspace must be created with exactly one owner, got %d", owners)
	}
	return nil
}
