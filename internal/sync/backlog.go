package sync

import "context"

// backlogDateLayout is the calendar-day granularity of the maintenance gate.
const backlogDateLayout = "2006-01-02"

// runBacklogMaintenance archives the workspace's stale backlog when its
// auto-archive setting is enabled, at most once per calendar day. The gate
// is a persisted last-run-date marker in the local cache; without a cache
// the task runs unconditionally. All failures are swallowed and logged;
// maintenance never surfaces errors to a user-facing channel.
func (s *Session) runBacklogMaintenance(ctx context.Context, workspaceID string) {
	today := s.now().Format(backlogDateLayout)

	if s.store != nil {
		lastRun, err := s.store.BacklogRunDate(workspaceID)
		if err != nil {
			s.logger.Warn("read backlog marker", "workspace", workspaceID, "error", err)
		} else if lastRun == today {
			return
		}
	}

	settings, err := s.repos.Backlog.Settings(ctx, workspaceID)
	if err != nil {
		s.logger.Warn("load backlog settings", "workspace", workspaceID, "error", err)
		return
	}

	if settings.AutoArchive {
		archived, err := s.repos.Backlog.ArchiveStale(ctx, workspaceID, settings.StaleAfterDays)
		if err != nil {
			s.logger.Warn("archive stale backlog", "workspace", workspaceID, "error", err)
			return
		}
		if archived > 0 {
			s.logger.Info("archived stale backlog", "workspace", workspaceID, "count", archived)
		}
	}

	if s.store != nil {
		if err := s.store.PutBacklogRunDate(workspaceID, today); err != nil {
			s.logger.Warn("write backlog marker", "workspace", workspaceID, "error", err)
		}
	}
}

// RunBacklogSweep runs backlog maintenance over every loaded workspace.
// The per-day gate makes repeated sweeps idempotent.
func (s *Session) RunBacklogSweep(ctx context.Context) {
	s.mu.RLock()
	ids := make([]string, len(s.workspaces))
	for i, w := range s.workspaces {
		ids[i] = w.ID
	}
	s.mu.RUnlock()

	for _, id := range ids {
		s.runBacklogMaintenance(ctx, id)
	}
}
