package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "taskdeck/internal/db"
	"taskdeck/internal/db/repository"
	"taskdeck/internal/domain"
	"taskdeck/internal/middleware"
	syncpkg "taskdeck/internal/sync"
)

// newTestServer builds the full stack on a migrated in-temp SQLite store and
// returns the wrapped router plus the repositories for seeding.
func newTestServer(t *testing.T) (http.Handler, domain.Repositories) {
	t.Helper()

	writeDB, readDB := internaldb.OpenTestSQLite(t)
	repos := repository.New(writeDB, readDB)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := syncpkg.NewManager(repos, nil, logger)
	t.Cleanup(manager.Close)

	handler := NewHandler(manager)
	return middleware.Principal(handler.Routes()), repos
}

func doRequest(t *testing.T, handler http.Handler, method, path, principalID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if principalID != "" {
		req.Header.Set(middleware.HeaderPrincipalID, principalID)
		req.Header.Set(middleware.HeaderPrincipalEmail, principalID+"@example.com")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) Snapshot {
	t.Helper()
	var snap Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

func TestGetSession_FirstRequestProvisions(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doRequest(t, handler, http.MethodGet, "/session", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	snap := decodeSnapshot(t, rec)
	require.Len(t, snap.Workspaces, 1)
	assert.Equal(t, "personal", snap.Workspaces[0].Kind)
	assert.True(t, snap.WorkspaceReady)
	require.NotNil(t, snap.Project)
	assert.Equal(t, domain.DefaultProjectName, snap.Project.Name)
}

func TestGetSession_RequiresPrincipal(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doRequest(t, handler, http.MethodGet, "/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSelectWorkspace_UnknownIs404(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doRequest(t, handler, http.MethodPut, "/session/workspace/nope", "u1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSprintLifecycle(t *testing.T) {
	handler, _ := newTestServer(t)

	snap := decodeSnapshot(t, doRequest(t, handler, http.MethodGet, "/session", "u1", nil))
	require.NotNil(t, snap.Project)
	projectID := snap.Project.ID

	// Create a phase, then a sprint under it.
	rec := doRequest(t, handler, http.MethodPost, "/sprints", "u1", CreateSprintRequest{
		ProjectID: projectID, Name: "Q3", Kind: "phase",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var phase Sprint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &phase))

	rec = doRequest(t, handler, http.MethodPost, "/sprints", "u1", CreateSprintRequest{
		ProjectID: projectID, Name: "Iteration 1", ParentID: phase.ID, Status: "active",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var iteration Sprint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &iteration))

	// The phase's children include the new sprint.
	rec = doRequest(t, handler, http.MethodGet, "/sprints/"+phase.ID+"/children", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var children map[string][]Sprint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &children))
	require.Len(t, children["sprints"], 1)
	assert.Equal(t, iteration.ID, children["sprints"][0].ID)

	// Rename by id.
	name := "Iteration 1b"
	rec = doRequest(t, handler, http.MethodPatch, "/sprints/"+iteration.ID, "u1", SprintPatchRequest{Name: &name})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var renamed Sprint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &renamed))
	assert.Equal(t, "Iteration 1b", renamed.Name)

	// A parent that is not a phase is rejected.
	rec = doRequest(t, handler, http.MethodPost, "/sprints", "u1", CreateSprintRequest{
		ProjectID: projectID, Name: "Bad", ParentID: iteration.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Delete.
	rec = doRequest(t, handler, http.MethodDelete, "/sprints/"+iteration.ID, "u1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doRequest(t, handler, http.MethodDelete, "/sprints/"+iteration.ID, "u1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportAuthorization(t *testing.T) {
	handler, repos := newTestServer(t)

	// Shared team workspace: u1 owns it, u2 is a plain member.
	_, err := repos.Workspaces.Create(context.Background(), &domain.Workspace{
		ID: "w1", Name: "Acme", Kind: domain.KindTeam, CreatorID: "u1", CreatedAt: time.Now(),
		Members: []domain.Member{
			{UserID: "u1", Role: domain.RoleOwner, JoinedAt: time.Now()},
		},
	})
	require.NoError(t, err)
	require.NoError(t, repos.Workspaces.AddMember(context.Background(), "w1", &domain.Member{
		UserID: "u2", Role: domain.RoleMember,
	}))

	// u2 signs in and lands in the shared workspace.
	rec := doRequest(t, handler, http.MethodGet, "/session", "u2", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	snap := decodeSnapshot(t, rec)
	require.NotNil(t, snap.Workspace)
	require.Equal(t, "w1", snap.Workspace.ID)

	// A plain member may view their own report but not a peer's.
	rec = doRequest(t, handler, http.MethodGet, "/reports/u2", "u2", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/reports/u1", "u2", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/access/viewable", "u2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var viewable map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &viewable))
	assert.Equal(t, []string{"u2"}, viewable["member_ids"])

	rec = doRequest(t, handler, http.MethodGet, "/access/resolution", "u2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var res Resolution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "member", res.Role)
	assert.Nil(t, res.Scope)
}

func TestUpdateCurrentWorkspace(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doRequest(t, handler, http.MethodGet, "/session", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	name := "My Desk"
	rec = doRequest(t, handler, http.MethodPatch, "/workspace", "u1", WorkspacePatchRequest{Name: &name})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	snap := decodeSnapshot(t, rec)
	require.NotNil(t, snap.Workspace)
	assert.Equal(t, "My Desk", snap.Workspace.Name)
}
