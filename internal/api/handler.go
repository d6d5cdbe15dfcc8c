// Package api provides the HTTP surface of the sync server: session
// snapshots, selection changes, sprint mutations and the access-control
// queries.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"taskdeck/internal/domain"
	"taskdeck/internal/middleware"
	syncpkg "taskdeck/internal/sync"
)

// Handler serves the sync API. Each principal gets a lazily created session
// from the manager; the first request pays for the sign-in cascade.
type Handler struct {
	sessions *syncpkg.Manager
}

// NewHandler creates a Handler on top of the session manager.
func NewHandler(sessions *syncpkg.Manager) *Handler {
	return &Handler{sessions: sessions}
}

// Routes mounts every endpoint. The caller wraps the returned router with
// the principal middleware.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/session", h.getSession)
	r.Get("/session/ready", h.getReady)
	r.Put("/session/workspace/{workspaceID}", h.selectWorkspace)
	r.Put("/session/project/{projectID}", h.selectProject)

	r.Get("/sprints/{sprintID}/children", h.childSprints)
	r.Get("/sprints/{sprintID}/linked", h.linkedSprints)

	r.Get("/access/resolution", h.getResolution)
	r.Get("/access/viewable", h.getViewable)
	r.Get("/reports/{memberID}", h.getReport)

	r.Patch("/workspace", h.updateWorkspace)
	r.Patch("/sprint", h.updateCurrentSprint)
	r.Post("/sprints", h.createSprint)
	r.Patch("/sprints/{sprintID}", h.updateSprint)
	r.Delete("/sprints/{sprintID}", h.deleteSprint)

	return r
}

// session resolves the request principal's session, signing in on first
// use.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*syncpkg.Session, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Code: http.StatusUnauthorized, Message: "no principal on request"})
		return nil, false
	}
	s, err := h.sessions.Session(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return s, true
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snapshotToAPI(s.Snapshot()))
}

func (h *Handler) getReady(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ready": s.Ready()})
}

func (h *Handler) selectWorkspace(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.SelectWorkspace(r.Context(), chi.URLParam(r, "workspaceID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotToAPI(s.Snapshot()))
}

func (h *Handler) selectProject(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.SelectProject(r.Context(), chi.URLParam(r, "projectID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotToAPI(s.Snapshot()))
}

func (h *Handler) childSprints(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	children := s.Snapshot().ChildSprints(chi.URLParam(r, "sprintID"))
	writeJSON(w, http.StatusOK, map[string][]Sprint{"sprints": sprintsToAPI(children)})
}

func (h *Handler) linkedSprints(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	linked := s.Snapshot().LinkedSprints(chi.URLParam(r, "sprintID"))
	writeJSON(w, http.StatusOK, map[string][]Sprint{"sprints": sprintsToAPI(linked)})
}

func (h *Handler) getResolution(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	res := s.Resolution()
	out := Resolution{Role: string(res.Role)}
	if res.Scope != nil {
		g := teamGroupToAPI(*res.Scope)
		out.Scope = &g
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getViewable(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"member_ids": s.ViewableMemberIDs()})
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	memberID := chi.URLParam(r, "memberID")
	if err := s.AuthorizeReport(memberID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"member_id": memberID})
}

func (h *Handler) updateWorkspace(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req WorkspacePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body: %v", err))
		return
	}
	if err := s.UpdateCurrentWorkspace(r.Context(), req.toDomain()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotToAPI(s.Snapshot()))
}

func (h *Handler) updateCurrentSprint(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req SprintPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body: %v", err))
		return
	}
	if err := s.UpdateCurrentSprint(r.Context(), req.toDomain()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotToAPI(s.Snapshot()))
}

func (h *Handler) createSprint(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req CreateSprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body: %v", err))
		return
	}

	sprint := &domain.Sprint{
		ID:              uuid.NewString(),
		ProjectID:       req.ProjectID,
		Name:            req.Name,
		Kind:            domain.SprintKind(req.Kind),
		Status:          domain.SprintStatus(req.Status),
		Order:           req.Order,
		ParentID:        req.ParentID,
		LinkedSprintIDs: req.LinkedSprintIDs,
	}
	if sprint.Kind == "" {
		sprint.Kind = domain.SprintKindSprint
	}
	if sprint.Status == "" {
		sprint.Status = domain.SprintPlanning
	}

	created, err := s.CreateSprint(r.Context(), sprint)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sprintToAPI(*created))
}

func (h *Handler) updateSprint(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req SprintPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body: %v", err))
		return
	}
	updated, err := s.UpdateSprint(r.Context(), chi.URLParam(r, "sprintID"), req.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sprintToAPI(*updated))
}

func (h *Handler) deleteSprint(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.DeleteSprint(r.Context(), chi.URLParam(r, "sprintID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
