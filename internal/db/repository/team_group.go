package repository

import (
	"context"
	"database/sql"
	"fmt"

	"taskdeck/internal/domain"
)

// TeamGroupRepo implements domain.TeamGroupRepository on SQLite.
type TeamGroupRepo struct {
	write *sql.DB
	read  *sql.DB
}

func NewTeamGroupRepo(writeDB, readDB *sql.DB) *TeamGroupRepo {
	return &TeamGroupRepo{write: writeDB, read: readDB}
}

var _ domain.TeamGroupRepository = (*TeamGroupRepo)(nil)

func (r *TeamGroupRepo) ListForWorkspace(ctx context.Context, workspaceID string) ([]domain.TeamGroup, error) {
	rows, err := r.read.QueryContext(ctx,
		`SELECT id, workspace_id, name, color, leader_id
		 FROM team_groups
		 WHERE workspace_id = ?
		 ORDER BY name, id`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var groups []domain.TeamGroup
	var ids []string
	for rows.Next() {
		var g domain.TeamGroup
		if err := rows.Scan(&g.ID, &g.WorkspaceID, &g.Name, &g.Color, &g.LeaderID); err != nil {
			return nil, err
		}
		groups = append(groups, g)
		ids = append(ids, g.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, nil
	}

	members, err := r.membersByGroup(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		groups[i].MemberIDs = members[groups[i].ID]
	}
	return groups, nil
}

func (r *TeamGroupRepo) Create(ctx context.Context, g *domain.TeamGroup) (*domain.TeamGroup, error) {
	if g.Name == "" {
		return nil, domain.ErrValidation("team group name is required")
	}

	tx, err := r.write.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO team_groups (id, workspace_id, name, color, leader_id)
		 VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.WorkspaceID, g.Name, g.Color, g.LeaderID); err != nil {
		return nil, mapDBError(err)
	}
	for i, userID := range g.MemberIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO team_group_members (group_id, user_id, position) VALUES (?, ?, ?)`,
			g.ID, userID, i); err != nil {
			return nil, mapDBError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := *g
	created.MemberIDs = append([]string(nil), g.MemberIDs...)
	return &created, nil
}

func (r *TeamGroupRepo) membersByGroup(ctx context.Context, groupIDs []string) (map[string][]string, error) {
	query := fmt.Sprintf(
		`SELECT group_id, user_id
		 FROM team_group_members
		 WHERE group_id IN (%s)
		 ORDER BY group_id, position`,
		placeholders(len(groupIDs)))

	rows, err := r.read.QueryContext(ctx, query, toAnySlice(groupIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	members := make(map[string][]string)
	for rows.Next() {
		var groupID, userID string
		if err := rows.Scan(&groupID, &userID); err != nil {
			return nil, err
		}
		members[groupID] = append(members[groupID], userID)
	}
	return members, rows.Err()
}
