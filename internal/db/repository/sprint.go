package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"taskdeck/internal/domain"
)

// SprintRepo implements domain.SprintRepository on SQLite. The parent and
// milestone-link invariants are enforced here, at the write boundary.
type SprintRepo struct {
	write *sql.DB
	read  *sql.DB
	now   func() time.Time
}

func NewSprintRepo(writeDB, readDB *sql.DB) *SprintRepo {
	return &SprintRepo{write: writeDB, read: readDB, now: time.Now}
}

var _ domain.SprintRepository = (*SprintRepo)(nil)

const sprintColumns = `id, project_id, name, kind, status, sort_order, parent_id`

func (r *SprintRepo) ListForProjects(ctx context.Context, projectIDs []string) ([]domain.Sprint, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(
		`SELECT %s FROM sprints
		 WHERE project_id IN (%s) AND archived = 0
		 ORDER BY project_id, sort_order, id`,
		sprintColumns, placeholders(len(projectIDs)))

	rows, err := r.read.QueryContext(ctx, query, toAnySlice(projectIDs)...)
	if err != nil {
		return nil, err
	}
	return r.collectSprints(ctx, rows)
}

func (r *SprintRepo) ListForProject(ctx context.Context, projectID string) ([]domain.Sprint, error) {
	rows, err := r.read.QueryContext(ctx,
		`SELECT `+sprintColumns+` FROM sprints
		 WHERE project_id = ? AND archived = 0
		 ORDER BY sort_order, id`,
		projectID)
	if err != nil {
		return nil, err
	}
	return r.collectSprints(ctx, rows)
}

func (r *SprintRepo) Create(ctx context.Context, s *domain.Sprint) (*domain.Sprint, error) {
	siblings, err := r.ListForProject(ctx, s.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateSprintWrite(s, siblings); err != nil {
		return nil, err
	}

	tx, err := r.write.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sprints (id, project_id, name, kind, status, sort_order, parent_id, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.ProjectID, s.Name, string(s.Kind), string(s.Status), s.Order, s.ParentID, r.now()); err != nil {
		return nil, mapDBError(err)
	}
	if err := replaceLinks(ctx, tx, s.ID, s.LinkedSprintIDs); err != nil {
		return nil, mapDBError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := *s
	created.LinkedSprintIDs = append([]string(nil), s.LinkedSprintIDs...)
	return &created, nil
}

func (r *SprintRepo) Update(ctx context.Context, id string, patch domain.SprintPatch) (*domain.Sprint, error) {
	current, err := r.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(current)
	siblings, err := r.ListForProject(ctx, current.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateSprintWrite(current, siblings); err != nil {
		return nil, err
	}

	tx, err := r.write.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`UPDATE sprints SET name = ?, status = ?, sort_order = ?, parent_id = ?, updated_at = ?
		 WHERE id = ?`,
		current.Name, string(current.Status), current.Order, current.ParentID, r.now(), id); err != nil {
		return nil, mapDBError(err)
	}
	if patch.LinkedSprintIDs != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sprint_links WHERE milestone_id = ?`, id); err != nil {
			return nil, err
		}
		if err := replaceLinks(ctx, tx, id, current.LinkedSprintIDs); err != nil {
			return nil, mapDBError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return current, nil
}

func (r *SprintRepo) Delete(ctx context.Context, id string) error {
	res, err := r.write.ExecContext(ctx, `DELETE FROM sprints WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound("sprint %q not found", id)
	}
	return nil
}

func (r *SprintRepo) getByID(ctx context.Context, id string) (*domain.Sprint, error) {
	var s domain.Sprint
	err := r.read.QueryRowContext(ctx,
		`SELECT `+sprintColumns+` FROM sprints WHERE id = ?`, id).
		Scan(&s.ID, &s.ProjectID, &s.Name, &s.Kind, &s.Status, &s.Order, &s.ParentID)
	if err != nil {
		return nil, mapDBError(err)
	}

	links, err := r.linksByMilestone(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	s.LinkedSprintIDs = links[id]
	return &s, nil
}

// collectSprints scans the sprint rows and attaches milestone links.
func (r *SprintRepo) collectSprints(ctx context.Context, rows *sql.Rows) ([]domain.Sprint, error) {
	defer rows.Close() //nolint:errcheck

	var sprints []domain.Sprint
	var milestoneIDs []string
	for rows.Next() {
		var s domain.Sprint
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Name, &s.Kind, &s.Status, &s.Order, &s.ParentID); err != nil {
			return nil, err
		}
		if s.Kind == domain.SprintKindMilestone {
			milestoneIDs = append(milestoneIDs, s.ID)
		}
		sprints = append(sprints, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(milestoneIDs) == 0 {
		return sprints, nil
	}

	links, err := r.linksByMilestone(ctx, milestoneIDs)
	if err != nil {
		return nil, err
	}
	for i := range sprints {
		sprints[i].LinkedSprintIDs = links[sprints[i].ID]
	}
	return sprints, nil
}

func (r *SprintRepo) linksByMilestone(ctx context.Context, milestoneIDs []string) (map[string][]string, error) {
	query := fmt.Sprintf(
		`SELECT milestone_id, sprint_id
		 FROM sprint_links
		 WHERE milestone_id IN (%s)
		 ORDER BY milestone_id, position`,
		placeholders(len(milestoneIDs)))

	rows, err := r.read.QueryContext(ctx, query, toAnySlice(milestoneIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	links := make(map[string][]string)
	for rows.Next() {
		var milestoneID, sprintID string
		if err := rows.Scan(&milestoneID, &sprintID); err != nil {
			return nil, err
		}
		links[milestoneID] = append(links[milestoneID], sprintID)
	}
	return links, rows.Err()
}

func replaceLinks(ctx context.Context, tx *sql.Tx, milestoneID string, sprintIDs []string) error {
	for i, sprintID := range sprintIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sprint_links (milestone_id, sprint_id, position) VALUES (?, ?, ?)`,
			milestoneID, sprintID, i); err != nil {
			return err
		}
	}
	return nil
}
