package api

import (
	"time"

	"taskdeck/internal/domain"
	"taskdeck/internal/graph"
)

// --- JSON view models ---

type Member struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

type Workspace struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color,omitempty"`
	Kind       string    `json:"kind"`
	CreatorID  string    `json:"creator_id"`
	InviteCode string    `json:"invite_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	Members    []Member  `json:"members,omitempty"`
}

type TeamGroup struct {
	ID          string   `json:"id"`
	WorkspaceID string   `json:"workspace_id"`
	Name        string   `json:"name"`
	Color       string   `json:"color,omitempty"`
	LeaderID    string   `json:"leader_id,omitempty"`
	MemberIDs   []string `json:"member_ids,omitempty"`
}

type Initiative struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
}

type Project struct {
	ID           string `json:"id"`
	WorkspaceID  string `json:"workspace_id"`
	Name         string `json:"name"`
	Color        string `json:"color,omitempty"`
	TeamGroupID  string `json:"team_group_id,omitempty"`
	InitiativeID string `json:"initiative_id,omitempty"`
	CreatorID    string `json:"creator_id,omitempty"`
}

type Sprint struct {
	ID              string   `json:"id"`
	ProjectID       string   `json:"project_id"`
	Name            string   `json:"name"`
	Kind            string   `json:"kind"`
	Status          string   `json:"status"`
	Order           int      `json:"order"`
	ParentID        string   `json:"parent_id,omitempty"`
	LinkedSprintIDs []string `json:"linked_sprint_ids,omitempty"`
}

// Snapshot is the full session state published to clients.
type Snapshot struct {
	Workspaces       []Workspace  `json:"workspaces"`
	Workspace        *Workspace   `json:"workspace,omitempty"`
	Members          []Member     `json:"members,omitempty"`
	TeamGroups       []TeamGroup  `json:"team_groups,omitempty"`
	TeamGroup        *TeamGroup   `json:"team_group,omitempty"`
	Initiatives      []Initiative `json:"initiatives,omitempty"`
	Projects         []Project    `json:"projects,omitempty"`
	Project          *Project     `json:"project,omitempty"`
	Sprints          []Sprint     `json:"sprints,omitempty"`
	WorkspaceSprints []Sprint     `json:"workspace_sprints,omitempty"`
	Sprint           *Sprint      `json:"sprint,omitempty"`
	WorkspaceReady   bool         `json:"workspace_ready"`
}

type Resolution struct {
	Role  string     `json:"role"`
	Scope *TeamGroup `json:"scope,omitempty"`
}

// --- request bodies ---

type WorkspacePatchRequest struct {
	Name       *string `json:"name,omitempty"`
	Color      *string `json:"color,omitempty"`
	InviteCode *string `json:"invite_code,omitempty"`
}

func (r WorkspacePatchRequest) toDomain() domain.WorkspacePatch {
	return domain.WorkspacePatch{Name: r.Name, Color: r.Color, InviteCode: r.InviteCode}
}

type SprintPatchRequest struct {
	Name            *string   `json:"name,omitempty"`
	Status          *string   `json:"status,omitempty"`
	Order           *int      `json:"order,omitempty"`
	ParentID        *string   `json:"parent_id,omitempty"`
	LinkedSprintIDs *[]string `json:"linked_sprint_ids,omitempty"`
}

func (r SprintPatchRequest) toDomain() domain.SprintPatch {
	p := domain.SprintPatch{Name: r.Name, Order: r.Order, ParentID: r.ParentID, LinkedSprintIDs: r.LinkedSprintIDs}
	if r.Status != nil {
		status := domain.SprintStatus(*r.Status)
		p.Status = &status
	}
	return p
}

type CreateSprintRequest struct {
	ProjectID       string   `json:"project_id"`
	Name            string   `json:"name"`
	Kind            string   `json:"kind"`
	Status          string   `json:"status"`
	Order           int      `json:"order"`
	ParentID        string   `json:"parent_id,omitempty"`
	LinkedSprintIDs []string `json:"linked_sprint_ids,omitempty"`
}

// --- mapping helpers ---

func memberToAPI(m domain.Member) Member {
	return Member{
		UserID:      m.UserID,
		DisplayName: m.DisplayName,
		Email:       m.Email,
		AvatarURL:   m.AvatarURL,
		Role:        string(m.Role),
		JoinedAt:    m.JoinedAt,
	}
}

func workspaceToAPI(w domain.Workspace) Workspace {
	out := Workspace{
		ID:         w.ID,
		Name:       w.Name,
		Color:      w.Color,
		Kind:       string(w.Kind),
		CreatorID:  w.CreatorID,
		InviteCode: w.InviteCode,
		CreatedAt:  w.CreatedAt,
	}
	for _, m := range w.Members {
		out.Members = append(out.Members, memberToAPI(m))
	}
	return out
}

func teamGroupToAPI(g domain.TeamGroup) TeamGroup {
	return TeamGroup{
		ID:          g.ID,
		WorkspaceID: g.WorkspaceID,
		Name:        g.Name,
		Color:       g.Color,
		LeaderID:    g.LeaderID,
		MemberIDs:   g.MemberIDs,
	}
}

func initiativeToAPI(in domain.Initiative) Initiative {
	return Initiative{ID: in.ID, WorkspaceID: in.WorkspaceID, Name: in.Name}
}

func projectToAPI(p domain.Project) Project {
	return Project{
		ID:           p.ID,
		WorkspaceID:  p.WorkspaceID,
		Name:         p.Name,
		Color:        p.Color,
		TeamGroupID:  p.TeamGroupID,
		InitiativeID: p.InitiativeID,
		CreatorID:    p.CreatorID,
	}
}

func sprintToAPI(s domain.Sprint) Sprint {
	return Sprint{
		ID:              s.ID,
		ProjectID:       s.ProjectID,
		Name:            s.Name,
		Kind:            string(s.Kind),
		Status:          string(s.Status),
		Order:           s.Order,
		ParentID:        s.ParentID,
		LinkedSprintIDs: s.LinkedSprintIDs,
	}
}

func sprintsToAPI(sprints []domain.Sprint) []Sprint {
	if sprints == nil {
		return nil
	}
	out := make([]Sprint, len(sprints))
	for i, s := range sprints {
		out[i] = sprintToAPI(s)
	}
	return out
}

func snapshotToAPI(snap graph.Snapshot) Snapshot {
	out := Snapshot{
		Workspaces:       make([]Workspace, 0, len(snap.Workspaces)),
		Sprints:          sprintsToAPI(snap.Sprints),
		WorkspaceSprints: sprintsToAPI(snap.WorkspaceSprints),
		WorkspaceReady:   snap.WorkspaceReady,
	}
	for _, w := range snap.Workspaces {
		out.Workspaces = append(out.Workspaces, workspaceToAPI(w))
	}
	if snap.Workspace != nil {
		w := workspaceToAPI(*snap.Workspace)
		out.Workspace = &w
	}
	for _, m := range snap.Members {
		out.Members = append(out.Members, memberToAPI(m))
	}
	for _, g := range snap.TeamGroups {
		out.TeamGroups = append(out.TeamGroups, teamGroupToAPI(g))
	}
	if snap.TeamGroup != nil {
		g := teamGroupToAPI(*snap.TeamGroup)
		out.TeamGroup = &g
	}
	for _, in := range snap.Initiatives {
		out.Initiatives = append(out.Initiatives, initiativeToAPI(in))
	}
	for _, p := range snap.Projects {
		out.Projects = append(out.Projects, projectToAPI(p))
	}
	if snap.Project != nil {
		p := projectToAPI(*snap.Project)
		out.Project = &p
	}
	if snap.Sprint != nil {
		s := sprintToAPI(*snap.Sprint)
		out.Sprint = &s
	}
	return out
}
