package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/domain"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_WorkspacesRoundtrip(t *testing.T) {
	c := openTestCache(t)

	got, err := c.Workspaces("u1")
	require.NoError(t, err)
	assert.Nil(t, got, "cold cache yields nothing")

	ws := []domain.Workspace{
		{ID: "w1", Name: "Personal", Kind: domain.KindPersonal, Members: []domain.Member{{UserID: "u1", Role: domain.RoleOwner}}},
		{ID: "w2", Name: "Acme", Kind: domain.KindOrganization},
	}
	require.NoError(t, c.PutWorkspaces("u1", ws))

	got, err = c.Workspaces("u1")
	require.NoError(t, err)
	assert.Equal(t, ws, got)

	// Fresher writes overwrite wholesale.
	require.NoError(t, c.PutWorkspaces("u1", ws[:1]))
	got, err = c.Workspaces("u1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCache_SelectionRoundtrip(t *testing.T) {
	c := openTestCache(t)

	sel, err := c.Selection("u1")
	require.NoError(t, err)
	assert.Empty(t, sel)

	require.NoError(t, c.PutSelection("u1", "w2"))
	sel, err = c.Selection("u1")
	require.NoError(t, err)
	assert.Equal(t, "w2", sel)
}

func TestCache_BacklogRunDate(t *testing.T) {
	c := openTestCache(t)

	date, err := c.BacklogRunDate("w1")
	require.NoError(t, err)
	assert.Empty(t, date)

	require.NoError(t, c.PutBacklogRunDate("w1", "2026-08-31"))
	date, err = c.BacklogRunDate("w1")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", date)
}
