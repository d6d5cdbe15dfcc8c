package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Sweeper runs a backlog sweep pass. Both Session and Manager qualify.
type Sweeper interface {
	RunBacklogSweep(ctx context.Context)
}

// MaintenanceScheduler drives the daily backlog sweep on a cron schedule.
type MaintenanceScheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	logger  *slog.Logger
}

// NewMaintenanceScheduler creates a scheduler for the given sweeper.
func NewMaintenanceScheduler(sweeper Sweeper, logger *slog.Logger) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		cron:    cron.New(),
		sweeper: sweeper,
		logger:  logger,
	}
}

// Start registers the sweep at the given cron spec and starts the clock.
func (m *MaintenanceScheduler) Start(spec string) error {
	_, err := m.cron.AddFunc(spec, func() {
		m.sweeper.RunBacklogSweep(context.Background())
	})
	if err != nil {
		return fmt.Errorf("schedule backlog sweep %q: %w", spec, err)
	}
	m.cron.Start()
	m.logger.Info("backlog sweep scheduled", "spec", spec)
	return nil
}

// Stop halts the scheduler.
func (m *MaintenanceScheduler) Stop() {
	m.cron.Stop()
	m.logger.Info("backlog sweep scheduler stopped")
}
