package domain

import "time"

// InviteStatus is the lifecycle state of a workspace invitation.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
)

// Invite is an email-addressed invitation to join a workspace. Pending
// invites for a signed-in user's email are reconciled in the background
// after the workspace list is first published.
type Invite struct {
	ID          string
	WorkspaceID string
	Email       string
	InviterID   string
	Status      InviteStatus
	CreatedAt   time.Time
}

// BacklogSettings controls per-workspace automatic archival of stale
// backlog items.
type BacklogSettings struct {
	WorkspaceID    string
	AutoArchive    bool
	StaleAfterDays int
}
