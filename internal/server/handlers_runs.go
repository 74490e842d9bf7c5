package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/site-builder/internal/pipeline"
	"github.com/jonathan/site-builder/internal/pipeline/steps"
	"github.com/jonathan/site-builder/internal/types"
)

type createRunRequest struct {
	Subdomain     string             `json:"subdomain,omitempty"`
	GBPLocationID string             `json:"gbp_location_id,omitempty"`
	PlaceID       string             `json:"place_id,omitempty"`
	Manual        *types.ManualFacts `json:"manual,omitempty"`
	OwnerEmail    string             `json:"owner_email,omitempty"`
	OwnerFirst    string             `json:"owner_first,omitempty"`
	OwnerLast     string             `json:"owner_last,omitempty"`
	WebsiteURL    string             `json:"website_url,omitempty"`
	SkipProvision bool               `json:"skip_provision,omitempty"`
}

func (req *createRunRequest) options() pipeline.Options {
	return pipeline.Options{
		Subdomain:     req.Subdomain,
		GBPLocationID: req.GBPLocationID,
		PlaceID:       req.PlaceID,
		Manual:        req.Manual,
		OwnerEmail:    req.OwnerEmail,
		OwnerFirst:    req.OwnerFirst,
		OwnerLast:     req.OwnerLast,
		WebsiteURL:    req.WebsiteURL,
		SkipProvision: req.SkipProvision,
	}
}

func (s *Server) decodeRunRequest(w http.ResponseWriter, r *http.Request) (*createRunRequest, bool) {
	if s.pipeline == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Onboarding is not configured")
		return nil, false
	}

	var req createRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if req.GBPLocationID == "" && req.PlaceID == "" {
		s.errorResponse(w, http.StatusBadRequest, "A GBP location ID or place ID is required")
		return nil, false
	}
	return &req, true
}

// handleCreateRun runs the onboarding pipeline synchronously and returns the
// outcome. Long-running; the server's write timeout accounts for it.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRunRequest(w, r)
	if !ok {
		return
	}

	outcome, err := s.pipeline.Run(r.Context(), req.options())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, outcome)
}

// handleRunStream runs the onboarding pipeline and streams progress events
// over SSE as each step completes.
func (s *Server) handleRunStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRunRequest(w, r)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts := req.options()
	opts.OnProgress = func(event pipeline.ProgressEvent) {
		sse.WriteEvent("progress", event) //nolint:errcheck
	}

	outcome, err := s.pipeline.Run(r.Context(), opts)
	if err != nil {
		sse.WriteError(err.Error())
		return
	}

	runID := ""
	if outcome.RunID != uuid.Nil {
		runID = outcome.RunID.String()
	}
	sse.WriteEvent("outcome", outcome) //nolint:errcheck
	sse.WriteComplete(runID, "completed")
}

// handleResumeRun re-runs a failed onboarding run from its last completed step
func (s *Server) handleResumeRun(w http.ResponseWriter, r *http.Request) {
	if s.pipeline == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Onboarding is not configured")
		return
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID")
		return
	}

	var req createRunRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	outcome, err := s.pipeline.Resume(r.Context(), runID, req.options())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, outcome)
}

// handleListRuns lists onboarding runs, newest first
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 50, 200)

	runs, err := s.db.ListRuns(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}

// handleGetRun retrieves one onboarding run
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID")
		return
	}

	run, err := s.db.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, run)
}

// handleListRunSteps lists step statuses for a run
func (s *Server) handleListRunSteps(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID")
		return
	}

	recorded, err := s.db.ListRunSteps(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	// Available and blocked help the dashboard decide whether resume can
	// make progress.
	available, err := steps.GetAvailableSteps(r.Context(), s.db, runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	blocked, err := steps.GetBlockedSteps(r.Context(), s.db, runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"run_id":    runID,
		"steps":     recorded,
		"available": available,
		"blocked":   blocked,
	})
}

// handleGetRunArtifact returns the stored artifact for one step of a run
func (s *Server) handleGetRunArtifact(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID")
		return
	}
	step := r.PathValue("step")

	artifact, err := s.db.GetArtifact(r.Context(), runID, step)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if artifact == nil {
		s.errorResponse(w, http.StatusNotFound, "Artifact not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"run_id":  runID,
		"step":    step,
		"content": json.RawMessage(artifact),
	})
}
