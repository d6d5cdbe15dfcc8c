package repository

import (
	"context"
	"database/sql"

	"taskdeck/internal/domain"
)

// InitiativeRepo implements domain.InitiativeRepository on SQLite.
type InitiativeRepo struct {
	write *sql.DB
	read  *sql.DB
}

func NewInitiativeRepo(writeDB, readDB *sql.DB) *InitiativeRepo {
	return &InitiativeRepo{write: writeDB, read: readDB}
}

var _ domain.InitiativeRepository = (*InitiativeRepo)(nil)

func (r *InitiativeRepo) ListForWorkspace(ctx context.Context, workspaceID string) ([]domain.Initiative, error) {
	rows, err := r.read.QueryContext(ctx,
		`SELECT id, workspace_id, name FROM initiatives WHERE workspace_id = ? ORDER BY name, id`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var initiatives []domain.Initiative
	for rows.Next() {
		var in domain.Initiative
		if err := rows.Scan(&in.ID, &in.WorkspaceID, &in.Name); err != nil {
			return nil, err
		}
		initiatives = append(initiatives, in)
	}
	return initiatives, rows.Err()
}

func (r *InitiativeRepo) Create(ctx context.Context, in *domain.Initiative) (*domain.Initiative, error) {
	if in.Name == "" {
		return nil, domain.ErrValidation("initiative name is required")
	}
	if _, err := r.write.ExecContext(ctx,
		`INSERT INTO initiatives (id, workspace_id, name) VALUES (?, ?, ?)`,
		in.ID, in.WorkspaceID, in.Name); err != nil {
		return nil, mapDBError(err)
	}
	created := *in
	return &created, nil
}
