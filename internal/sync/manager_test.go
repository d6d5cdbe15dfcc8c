package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/domain"
)

func TestManager_SignInRunsOncePerPrincipal(t *testing.T) {
	repos := newTestRepos()

	var signIns atomic.Int32
	repos.workspaces.listForUserFn = func(context.Context, string) ([]domain.Workspace, error) {
		signIns.Add(1)
		return []domain.Workspace{teamWorkspaceForUser("w1", testUser.ID)}, nil
	}

	m := NewManager(repos.bundle(), nil, discardLogger())
	defer m.Close()

	var wg stdsync.WaitGroup
	sessions := make([]*Session, 8)
	errs := make([]error, 8)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i], errs[i] = m.Session(context.Background(), testUser)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), signIns.Load())
	for i := range sessions {
		require.NoError(t, errs[i])
		assert.Same(t, sessions[0], sessions[i])
	}
}

func TestManager_FailedSignInRetries(t *testing.T) {
	repos := newTestRepos()

	calls := 0
	repos.workspaces.listForUserFn = func(context.Context, string) ([]domain.Workspace, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("network down")
		}
		return []domain.Workspace{teamWorkspaceForUser("w1", testUser.ID)}, nil
	}

	m := NewManager(repos.bundle(), nil, discardLogger())
	defer m.Close()

	_, err := m.Session(context.Background(), testUser)
	require.Error(t, err)

	s, err := m.Session(context.Background(), testUser)
	require.NoError(t, err)
	assert.True(t, s.Ready())
	assert.Equal(t, 2, calls)
}

func TestManager_SweepCoversAllSessions(t *testing.T) {
	repos := newTestRepos()
	repos.workspaces.listForUserFn = func(_ context.Context, userID string) ([]domain.Workspace, error) {
		return []domain.Workspace{teamWorkspaceForUser("w-"+userID, userID)}, nil
	}

	var swept []string
	var mu stdsync.Mutex
	repos.backlog.settingsFn = func(_ context.Context, workspaceID string) (*domain.BacklogSettings, error) {
		return &domain.BacklogSettings{WorkspaceID: workspaceID, AutoArchive: true, StaleAfterDays: 14}, nil
	}
	repos.backlog.archiveStaleFn = func(_ context.Context, workspaceID string, _ int) (int64, error) {
		mu.Lock()
		swept = append(swept, workspaceID)
		mu.Unlock()
		return 0, nil
	}

	m := NewManager(repos.bundle(), nil, discardLogger())
	defer m.Close()

	for _, u := range []domain.User{
		{ID: "u1", DisplayName: "Ada"},
		{ID: "u2", DisplayName: "Grace"},
	} {
		s, err := m.Session(context.Background(), u)
		require.NoError(t, err)
		s.WaitBackground()
	}

	swept = nil
	m.RunBacklogSweep(context.Background())

	assert.ElementsMatch(t, []string{"w-u1", "w-u2"}, swept)
}

func TestMaintenanceScheduler_InvalidSpec(t *testing.T) {
	sched := NewMaintenanceScheduler(sweepFunc(func(context.Context) {}), discardLogger())
	err := sched.Start("not a cron spec")
	require.Error(t, err)
}

func TestMaintenanceScheduler_FiresSweep(t *testing.T) {
	fired := make(chan struct{}, 1)
	sched := NewMaintenanceScheduler(sweepFunc(func(context.Context) {
		select {
		case fired <- struct{}{}:
		default:
		}
	}), discardLogger())

	require.NoError(t, sched.Start("@every 10ms"))
	defer sched.Stop()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep never fired")
	}
}

type sweepFunc func(ctx context.Context)

func (f sweepFunc) RunBacklogSweep(ctx context.Context) { f(ctx) }

func teamWorkspaceForUser(id, userID string) domain.Workspace {
	return domain.Workspace{
		ID:   id,
		Name: "Team " + id,
		Kind: domain.KindTeam,
		Members: []domain.Member{
			{UserID: userID, Role: domain.RoleOwner},
		},
	}
}
