// Package access computes a principal's effective role, visibility scope,
// and viewable member set from a workspace's member and team group lists.
package access

import "taskdeck/internal/domain"

// Resolution is a principal's effective role plus the team group scoping
// their visibility. A nil Scope means unscoped: admins and owners see the
// whole workspace, everyone else falls back to themselves.
type Resolution struct {
	Role  domain.Role
	Scope *domain.TeamGroup
}

// Resolve computes the effective role and scope for the given user.
//
// An unknown user id resolves to (viewer, nil) rather than an error: an
// absent principal gets least privilege. Leading a team group grants at
// least maintainer-level visibility for that group even when the stored
// role is lower; leadership is a structural fact independent of the role
// flag an administrator happened to set.
func Resolve(userID string, members []domain.Member, groups []domain.TeamGroup) Resolution {
	var member *domain.Member
	for i := range members {
		if members[i].UserID == userID {
			member = &members[i]
			break
		}
	}
	if member == nil {
		return Resolution{Role: domain.RoleViewer}
	}

	declared := member.Role
	if declared.HasLevel(domain.RoleAdmin) {
		return Resolution{Role: declared}
	}

	for i := range groups {
		if groups[i].LeaderID == userID {
			return Resolution{Role: domain.RoleMaintainer, Scope: &groups[i]}
		}
	}

	for i := range groups {
		if groups[i].HasMember(userID) {
			return Resolution{Role: declared, Scope: &groups[i]}
		}
	}
	return Resolution{Role: declared}
}

// ViewableIDs derives the set of member ids the principal may view detailed
// reports for, given their resolution.
func ViewableIDs(userID string, res Resolution, members []domain.Member) []string {
	if res.Role.HasLevel(domain.RoleAdmin) {
		ids := make([]string, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.UserID)
		}
		return ids
	}
	if res.Role == domain.RoleMaintainer && res.Scope != nil {
		return append([]string(nil), res.Scope.MemberIDs...)
	}
	return []string{userID}
}

// Authorize rejects a caller-supplied target id that falls outside the
// principal's viewable set.
func Authorize(userID string, res Resolution, members []domain.Member, targetID string) error {
	for _, id := range ViewableIDs(userID, res, members) {
		if id == targetID {
			return nil
		}
	}
	return domain.ErrAccessDenied("user %q may not view member %q", userID, targetID)
}
