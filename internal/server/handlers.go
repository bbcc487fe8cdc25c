package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gauravm26/vishmaker/pkg/errors"
	"github.com/gauravm26/vishmaker/pkg/pipeline"
	"github.com/gauravm26/vishmaker/pkg/project"
)

// maxBodyBytes caps request bodies; requirement trees are text, so anything
// beyond this is a client bug.
const maxBodyBytes = 4 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Project CRUD
// =============================================================================

// createProjectRequest is the POST /v1/projects body.
type createProjectRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Flows       []project.Flow `json:"flows,omitempty"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	created, err := s.store.CreateProject(r.Context(), &project.Project{
		Name:        req.Name,
		Description: req.Description,
		Flows:       req.Flows,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetProject(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProject(r.Context(), chi.URLParam(r, "projectID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// putFlowsRequest is the PUT /v1/projects/{id}/flows body.
type putFlowsRequest struct {
	Flows []project.Flow `json:"flows"`
}

func (s *Server) handlePutFlows(w http.ResponseWriter, r *http.Request) {
	var req putFlowsRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	updated, err := s.store.PutFlows(r.Context(), chi.URLParam(r, "projectID"), req.Flows)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

// =============================================================================
// Canvas
// =============================================================================

// handleCanvas runs the pipeline for a stored project and returns the JSON
// renderer document. Query parameters: refresh=true bypasses the cache.
func (s *Server) handleCanvas(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	p, err := s.store.GetProject(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		ProjectID: p.ID,
		Flows:     p.Flows,
		Geometry:  s.geometry,
		Formats:   []string{pipeline.FormatJSON},
		Refresh:   r.URL.Query().Get("refresh") == "true",
		Logger:    s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Canvas-Hash", result.CanvasHash)
	if result.CacheInfo.LayoutHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Artifacts[pipeline.FormatJSON]); err != nil {
		s.logger.Error("write canvas response", "err", err)
	}
}

// decodeBody decodes a JSON request body with a size cap.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
