package repository

import (
	"context"
	"database/sql"
	"time"

	"taskdeck/internal/domain"
)

// InviteRepo implements domain.InviteRepository on SQLite.
type InviteRepo struct {
	write *sql.DB
	read  *sql.DB
}

func NewInviteRepo(writeDB, readDB *sql.DB) *InviteRepo {
	return &InviteRepo{write: writeDB, read: readDB}
}

var _ domain.InviteRepository = (*InviteRepo)(nil)

func (r *InviteRepo) ListPendingForEmail(ctx context.Context, email string) ([]domain.Invite, error) {
	rows, err := r.read.QueryContext(ctx,
		`SELECT id, workspace_id, email, inviter_id, status, created_at
		 FROM invites
		 WHERE email = ? AND status = 'pending'
		 ORDER BY created_at, id`,
		email)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var invites []domain.Invite
	for rows.Next() {
		var inv domain.Invite
		if err := rows.Scan(&inv.ID, &inv.WorkspaceID, &inv.Email, &inv.InviterID, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (r *InviteRepo) Create(ctx context.Context, inv *domain.Invite) (*domain.Invite, error) {
	if inv.Email == "" {
		return nil, domain.ErrValidation("invite email is required")
	}
	created := *inv
	if created.Status == "" {
		created.Status = domain.InvitePending
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now()
	}
	if _, err := r.write.ExecContext(ctx,
		`INSERT INTO invites (id, workspace_id, email, inviter_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		created.ID, created.WorkspaceID, created.Email, created.InviterID, string(created.Status), created.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &created, nil
}

func (r *InviteRepo) Accept(ctx context.Context, id string) error {
	res, err := r.write.ExecContext(ctx,
		`UPDATE invites SET status = 'accepted' WHERE id = ? AND status = 'pending'`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound("pending invite %q not found", id)
	}
	return nil
}

// BacklogRepo implements domain.BacklogRepository on SQLite.
type BacklogRepo struct {
	write *sql.DB
	read  *sql.DB
	now   func() time.Time
}

func NewBacklogRepo(writeDB, readDB *sql.DB) *BacklogRepo {
	return &BacklogRepo{write: writeDB, read: readDB, now: time.Now}
}

var _ domain.BacklogRepository = (*BacklogRepo)(nil)

// Settings returns the workspace's backlog settings. A workspace without a
// stored row gets the disabled defaults.
func (r *BacklogRepo) Settings(ctx context.Context, workspaceID string) (*domain.BacklogSettings, error) {
	s := domain.BacklogSettings{WorkspaceID: workspaceID}
	var autoArchive int64
	err := r.read.QueryRowContext(ctx,
		`SELECT auto_archive, stale_after_days FROM backlog_settings WHERE workspace_id = ?`,
		workspaceID).Scan(&autoArchive, &s.StaleAfterDays)
	if err == sql.ErrNoRows {
		return &s, nil
	}
	if err != nil {
		return nil, err
	}
	s.AutoArchive = autoArchive != 0
	return &s, nil
}

// SetSettings upserts the workspace's backlog settings.
func (r *BacklogRepo) SetSettings(ctx context.Context, s *domain.BacklogSettings) error {
	_, err := r.write.ExecContext(ctx,
		`INSERT INTO backlog_settings (workspace_id, auto_archive, stale_after_days)
		 VALUES (?, ?, ?)
		 ON CONFLICT (workspace_id) DO UPDATE SET auto_archive = excluded.auto_archive, stale_after_days = excluded.stale_after_days`,
		s.WorkspaceID, boolToInt(s.AutoArchive), s.StaleAfterDays)
	return err
}

// ArchiveStale archives planning-state sprints in the workspace that have
// not been touched for more than staleDays days.
func (r *BacklogRepo) ArchiveStale(ctx context.Context, workspaceID string, staleDays int) (int64, error) {
	cutoff := r.now().AddDate(0, 0, -staleDays)
	res, err := r.write.ExecContext(ctx,
		`UPDATE sprints SET archived = 1
		 WHERE archived = 0
		   AND status = 'planning'
		   AND updated_at < ?
		   AND project_id IN (SELECT id FROM projects WHERE workspace_id = ?)`,
		cutoff, workspaceID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
