package repository

import (
	"context"
	"database/sql"

	"taskdeck/internal/domain"
)

// ProjectRepo implements domain.ProjectRepository on SQLite.
type ProjectRepo struct {
	write *sql.DB
	read  *sql.DB
}

func NewProjectRepo(writeDB, readDB *sql.DB) *ProjectRepo {
	return &ProjectRepo{write: writeDB, read: readDB}
}

var _ domain.ProjectRepository = (*ProjectRepo)(nil)

func (r *ProjectRepo) ListForWorkspace(ctx context.Context, workspaceID string) ([]domain.Project, error) {
	rows, err := r.read.QueryContext(ctx,
		`SELECT id, workspace_id, name, color, team_group_id, initiative_id, creator_id
		 FROM projects
		 WHERE workspace_id = ?
		 ORDER BY name, id`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.WorkspaceID, &p.Name, &p.Color, &p.TeamGroupID, &p.InitiativeID, &p.CreatorID); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepo) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	if p.Name == "" {
		return nil, domain.ErrValidation("project name is required")
	}
	if _, err := r.write.ExecContext(ctx,
		`INSERT INTO projects (id, workspace_id, name, color, team_group_id, initiative_id, creator_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.WorkspaceID, p.Name, p.Color, p.TeamGroupID, p.InitiativeID, p.CreatorID); err != nil {
		return nil, mapDBError(err)
	}
	created := *p
	return &created, nil
}
