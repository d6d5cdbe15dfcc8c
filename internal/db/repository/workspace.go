package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"taskdeck/internal/domain"
)

// WorkspaceRepo implements domain.WorkspaceRepository on SQLite. Reads go
// through the read pool so the load cascade can fan out; writes are
// serialized through the single-connection write pool.
type WorkspaceRepo struct {
	write *sql.DB
	read  *sql.DB
}

func NewWorkspaceRepo(writeDB, readDB *sql.DB) *WorkspaceRepo {
	return &WorkspaceRepo{write: writeDB, read: readDB}
}

var _ domain.WorkspaceRepository = (*WorkspaceRepo)(nil)

func (r *WorkspaceRepo) ListForUser(ctx context.Context, userID string) ([]domain.Workspace, error) {
	rows, err := r.read.QueryContext(ctx,
		`SELECT w.id, w.name, w.color, w.kind, w.creator_id, w.invite_code, w.created_at
		 FROM workspaces w
		 JOIN workspace_members m ON m.workspace_id = w.id
		 WHERE m.user_id = ?
		 ORDER BY w.created_at, w.id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var workspaces []domain.Workspace
	var ids []string
	for rows.Next() {
		var w domain.Workspace
		if err := rows.Scan(&w.ID, &w.Name, &w.Color, &w.Kind, &w.CreatorID, &w.InviteCode, &w.CreatedAt); err != nil {
			return nil, err
		}
		workspaces = append(workspaces, w)
		ids = append(ids, w.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(workspaces) == 0 {
		return nil, nil
	}

	members, err := r.membersByWorkspace(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range workspaces {
		workspaces[i].Members = members[workspaces[i].ID]
	}
	return workspaces, nil
}

func (r *WorkspaceRepo) Create(ctx context.Context, w *domain.Workspace) (*domain.Workspace, error) {
	if err := domain.ValidateNewWorkspace(w); err != nil {
		return nil, err
	}

	tx, err := r.write.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO workspaces (id, name, color, kind, creator_id, invite_code, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Name, w.Color, string(w.Kind), w.CreatorID, w.InviteCode, w.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	for _, m := range w.Members {
		if err := insertMember(ctx, tx, w.ID, &m); err != nil {
			return nil, mapDBError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := *w
	created.Members = append([]domain.Member(nil), w.Members...)
	return &created, nil
}

func (r *WorkspaceRepo) Update(ctx context.Context, id string, patch domain.WorkspacePatch) (*domain.Workspace, error) {
	var w domain.Workspace
	err := r.write.QueryRowContext(ctx,
		`SELECT id, name, color, kind, creator_id, invite_code, created_at
		 FROM workspaces WHERE id = ?`, id).
		Scan(&w.ID, &w.Name, &w.Color, &w.Kind, &w.CreatorID, &w.InviteCode, &w.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}

	patch.Apply(&w)
	if _, err := r.write.ExecContext(ctx,
		`UPDATE workspaces SET name = ?, color = ?, invite_code = ? WHERE id = ?`,
		w.Name, w.Color, w.InviteCode, id); err != nil {
		return nil, mapDBError(err)
	}

	w.Members, err = r.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WorkspaceRepo) ListMembers(ctx context.Context, workspaceID string) ([]domain.Member, error) {
	rows, err := r.read.QueryContext(ctx,
		`SELECT user_id, display_name, email, avatar_url, role, joined_at
		 FROM workspace_members
		 WHERE workspace_id = ?
		 ORDER BY joined_at, user_id`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.UserID, &m.DisplayName, &m.Email, &m.AvatarURL, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *WorkspaceRepo) AddMember(ctx context.Context, workspaceID string, m *domain.Member) error {
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	if err := insertMember(ctx, r.write, workspaceID, m); err != nil {
		return mapDBError(err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertMember(ctx context.Context, db execer, workspaceID string, m *domain.Member) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO workspace_members (workspace_id, user_id, display_name, email, avatar_url, role, joined_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		workspaceID, m.UserID, m.DisplayName, m.Email, m.AvatarURL, string(m.Role), m.JoinedAt)
	return err
}

// membersByWorkspace loads the member lists for a set of workspaces in one
// query.
func (r *WorkspaceRepo) membersByWorkspace(ctx context.Context, workspaceIDs []string) (map[string][]domain.Member, error) {
	query := fmt.Sprintf(
		`SELECT workspace_id, user_id, display_name, email, avatar_url, role, joined_at
		 FROM workspace_members
		 WHERE workspace_id IN (%s)
		 ORDER BY joined_at, user_id`,
		placeholders(len(workspaceIDs)))

	rows, err := r.read.QueryContext(ctx, query, toAnySlice(workspaceIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	members := make(map[string][]domain.Member)
	for rows.Next() {
		var workspaceID string
		var m domain.Member
		if err := rows.Scan(&workspaceID, &m.UserID, &m.DisplayName, &m.Email, &m.AvatarURL, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members[workspaceID] = append(members[workspaceID], m)
	}
	return members, rows.Err()
}
