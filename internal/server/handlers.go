package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-tailor/internal/ingest"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/store"
	"github.com/jonathan/resume-tailor/internal/types"
)

// TailorRequest is the request body for /tailor and /tailor/stream. The job
// description can be supplied inline or as a URL to fetch.
type TailorRequest struct {
	Resume         types.ResumeRecord `json:"resume" validate:"required"`
	JobDescription string             `json:"job_description" validate:"required_without=JobURL"`
	JobURL         string             `json:"job_url" validate:"omitempty,url"`
	Industry       string             `json:"industry"`
}

// TailorResponse is the response body for /tailor.
type TailorResponse struct {
	Resume *types.ResumeRecord `json:"resume"`
}

// RunResponse describes one persisted run.
type RunResponse struct {
	RunID       string `json:"run_id"`
	Industry    string `json:"industry"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// decodeTailorRequest parses and validates the request body, fetching the job
// posting when only a URL was given.
func (s *Server) decodeTailorRequest(w http.ResponseWriter, r *http.Request) (*types.PipelineInput, bool) {
	var req TailorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}

	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return nil, false
	}

	jobText := req.JobDescription
	if jobText == "" {
		text, err := ingest.JobFromURL(r.Context(), req.JobURL, nil)
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, "Failed to fetch job posting: "+err.Error())
			return nil, false
		}
		jobText = text
	}

	return &types.PipelineInput{
		Resume:         req.Resume,
		JobDescription: jobText,
		Industry:       req.Industry,
	}, true
}

// handleTailor runs the full pipeline synchronously and returns the tailored
// resume.
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	input, ok := s.decodeTailorRequest(w, r)
	if !ok {
		return
	}

	result, err := s.run(r.Context(), *input, pipeline.Options{
		Caller: s.caller,
		Store:  s.pipelineStore(),
		Logger: s.logger,
	})
	if err != nil {
		s.logger.Error("tailoring run failed", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, TailorResponse{Resume: result})
}

// handleTailorStream runs the pipeline while streaming progress events over
// SSE. Events: progress, complete, error.
func (s *Server) handleTailorStream(w http.ResponseWriter, r *http.Request) {
	input, ok := s.decodeTailorRequest(w, r)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	events := make(chan types.ProgressEvent, 16)

	g, ctx := errgroup.WithContext(r.Context())

	var result *types.ResumeRecord
	g.Go(func() error {
		defer close(events)
		var runErr error
		result, runErr = s.run(ctx, *input, pipeline.Options{
			Caller: s.caller,
			Store:  s.pipelineStore(),
			Logger: s.logger,
			OnProgress: func(event types.ProgressEvent) {
				select {
				case events <- event:
				case <-ctx.Done():
				}
			},
		})
		return runErr
	})

	// Forward progress on the request goroutine; only it may touch the
	// ResponseWriter.
	for event := range events {
		if err := sse.WriteEvent("progress", event); err != nil {
			s.logger.Warn("client disconnected during stream", zap.Error(err))
			break
		}
	}

	if err := g.Wait(); err != nil {
		sse.WriteError(err.Error())
		return
	}
	sse.WriteComplete(result)
}

// handleListRuns returns recent persisted runs.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Run persistence is not configured")
		return
	}

	runs, err := s.store.ListRuns(r.Context(), 50)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	out := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, toRunResponse(run))
	}
	s.jsonResponse(w, http.StatusOK, out)
}

// handleGetRun returns the status of one run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Run persistence is not configured")
		return
	}

	runID, ok := s.parseRunID(w, r)
	if !ok {
		return
	}

	run, err := s.store.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, toRunResponse(*run))
}

// handleGetArtifact returns one stage artifact of a run.
func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Run persistence is not configured")
		return
	}

	runID, ok := s.parseRunID(w, r)
	if !ok {
		return
	}
	step := r.PathValue("step")

	content, err := s.store.GetArtifact(r.Context(), runID, step)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if content == nil {
		s.errorResponse(w, http.StatusNotFound, "Artifact not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// handleDeleteRun deletes a run and its artifacts.
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Run persistence is not configured")
		return
	}

	runID, ok := s.parseRunID(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteRun(r.Context(), runID); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) parseRunID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID format")
		return uuid.Nil, false
	}
	return runID, true
}

func toRunResponse(run store.Run) RunResponse {
	resp := RunResponse{
		RunID:     run.ID.String(),
		Industry:  run.Industry,
		Status:    run.Status,
		CreatedAt: run.CreatedAt.Format(time.RFC3339),
	}
	if run.CompletedAt != nil {
		resp.CompletedAt = run.CompletedAt.Format(time.RFC3339)
	}
	return resp
}
