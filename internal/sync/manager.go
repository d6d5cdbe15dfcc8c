package sync

import (
	"context"
	"log/slog"
	"sync"

	"taskdeck/internal/cache"
	"taskdeck/internal/domain"
)

// managedSession ensures the sign-in cascade runs exactly once per session
// even under concurrent first requests.
type managedSession struct {
	session *Session
	signIn  sync.Once
	err     error
}

// Manager owns one Session per signed-in principal. Sessions are created
// lazily on first use and survive until Close.
type Manager struct {
	repos  domain.Repositories
	store  *cache.Cache
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*managedSession
}

// NewManager creates a session manager. store may be nil when no local
// cache directory is configured.
func NewManager(repos domain.Repositories, store *cache.Cache, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		repos:    repos,
		store:    store,
		logger:   logger,
		sessions: make(map[string]*managedSession),
	}
}

// Session returns the principal's session, signing in on first use. The
// sign-in runs the full load cascade, so the returned session is ready (or
// the error explains why it is not).
func (m *Manager) Session(ctx context.Context, user domain.User) (*Session, error) {
	m.mu.Lock()
	entry, ok := m.sessions[user.ID]
	if !ok {
		entry = &managedSession{session: New(m.repos, m.store, m.logger.With("user", user.ID))}
		m.sessions[user.ID] = entry
	}
	m.mu.Unlock()

	entry.signIn.Do(func() {
		entry.err = entry.session.SignIn(ctx, user)
	})
	if entry.err != nil {
		// Drop the failed entry so the next request retries the sign-in.
		m.mu.Lock()
		if m.sessions[user.ID] == entry {
			delete(m.sessions, user.ID)
		}
		m.mu.Unlock()
		return nil, entry.err
	}
	return entry.session, nil
}

// RunBacklogSweep runs the backlog sweep for every live session.
func (m *Manager) RunBacklogSweep(ctx context.Context) {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, entry := range m.sessions {
		sessions = append(sessions, entry.session)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.RunBacklogSweep(ctx)
	}
}

// Close waits for every session's background work to settle and drops the
// session table.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*managedSession)
	m.mu.Unlock()

	for _, entry := range sessions {
		entry.session.WaitBackground()
	}
}
