// Package cache mirrors session state to a local embedded badger store so a
// restarted client can render instantly before the first network round-trip.
//
// The cache is purely a latency optimization, never a source of truth: it
// has no expiry and is only overwritten by fresher server responses. It also
// holds the per-workspace calendar-day markers gating backlog maintenance.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"taskdeck/internal/domain"
)

// Cache is a handle on the local badger store.
type Cache struct {
	db *badger.DB
}

// Open opens (or creates) the store at dir. An empty dir opens an in-memory
// store, which tests use.
func Open(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	return c.db.Close()
}

func workspacesKey(userID string) []byte { return []byte("workspaces/" + userID) }
func selectionKey(userID string) []byte  { return []byte("selection/" + userID) }
func backlogKey(workspaceID string) []byte {
	return []byte("backlog-run/" + workspaceID)
}

// PutWorkspaces records the latest workspace list for a user.
func (c *Cache) PutWorkspaces(userID string, workspaces []domain.Workspace) error {
	raw, err := json.Marshal(workspaces)
	if err != nil {
		return fmt.Errorf("encode workspaces: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(workspacesKey(userID), raw)
	})
}

// Workspaces returns the cached workspace list for a user, or nil when the
// cache holds nothing for them.
func (c *Cache) Workspaces(userID string) ([]domain.Workspace, error) {
	var out []domain.Workspace
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(workspacesKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(raw []byte) error {
			return json.Unmarshal(raw, &out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cached workspaces: %w", err)
	}
	return out, nil
}

// PutSelection records the user's selected workspace id.
func (c *Cache) PutSelection(userID, workspaceID string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(selectionKey(userID), []byte(workspaceID))
	})
}

// Selection returns the user's last selected workspace id, or "" when none
// is recorded.
func (c *Cache) Selection(userID string) (string, error) {
	var out string
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(selectionKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(raw []byte) error {
			out = string(raw)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read cached selection: %w", err)
	}
	return out, nil
}

// BacklogRunDate returns the date (YYYY-MM-DD) backlog maintenance last ran
// for the workspace, or "" when it never has.
func (c *Cache) BacklogRunDate(workspaceID string) (string, error) {
	var out string
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(backlogKey(workspaceID))
		if err != nil {
			return err
		}
		return item.Value(func(raw []byte) error {
			out = string(raw)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read backlog marker: %w", err)
	}
	return out, nil
}

// PutBacklogRunDate records the date backlog maintenance ran for the
// workspace.
func (c *Cache) PutBacklogRunDate(workspaceID, date string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(backlogKey(workspaceID), []byte(date))
	})
}
