package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/swipehire/interview-engine/internal/interview"
	"github.com/swipehire/interview-engine/internal/models"
	"github.com/swipehire/interview-engine/internal/scoring"
)

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// respondEngineError maps engine errors onto the response codes of the
// session-operation contract
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "not_found", "session not found")
	case errors.Is(err, interview.ErrInvalidStageSet):
		respondError(w, http.StatusBadRequest, "invalid_stage_set", err.Error())
	case errors.Is(err, interview.ErrIndexOutOfRange):
		respondError(w, http.StatusBadRequest, "index_out_of_range", err.Error())
	case errors.Is(err, interview.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, scoring.ErrMalformedResponse):
		respondError(w, http.StatusBadGateway, "grading_malformed", err.Error())
	case errors.Is(err, interview.ErrGradingUnavailable):
		respondError(w, http.StatusServiceUnavailable, "grading_unavailable", "grading service unavailable, retry finalize")
	case errors.Is(err, interview.ErrStoreUnavailable):
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", "session store unavailable, retry")
	default:
		slog.Error("unhandled engine error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "not_ready", "service not ready")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

// Roster handlers (recruiter dashboard)

func (s *Server) handleListRoster(w http.ResponseWriter, r *http.Request) {
	filters := models.RosterFilters{
		Recommendation: models.Recommendation(r.URL.Query().Get("recommendation")),
		Limit:          50, // default
		Offset:         0,
	}

	if minStr := r.URL.Query().Get("min_score"); minStr != "" {
		if m, err := strconv.Atoi(minStr); err == nil && m > 0 {
			filters.MinScore = m
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			filters.Limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filters.Offset = o
		}
	}

	records, err := s.repo.ListRecords(r.Context(), filters)
	if err != nil {
		slog.Error("failed to list roster", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list roster")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"total":   len(records),
	})
}

func (s *Server) handleGetRosterRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "record id is required")
		return
	}

	rec, err := s.repo.GetRecord(r.Context(), id)
	if err != nil {
		slog.Error("failed to get roster record", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get record")
		return
	}
	if rec == nil {
		respondError(w, http.StatusNotFound, "not_found", "record not found")
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRosterRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "record id is required")
		return
	}

	if err := s.repo.DeleteRecord(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "not_found", "record not found")
			return
		}
		slog.Error("failed to delete roster record", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete record")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "record deleted",
	})
}

// Profile extraction

type extractRequest struct {
	ResumeText string `json:"resume_text"`
}

func (s *Server) handleExtractProfile(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if len(req.ResumeText) < 10 {
		respondError(w, http.StatusBadRequest, "validation_error", "resume_text must be at least 10 characters")
		return
	}

	profile, err := s.ai.ExtractProfile(r.Context(), req.ResumeText)
	if err != nil {
		slog.Error("failed to extract profile", "error", err)
		respondError(w, http.StatusServiceUnavailable, "extraction_unavailable", "profile extraction failed")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// Role handlers

func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	list := s.roleLoader.List()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"roles": list,
		"total": len(list),
	})
}
