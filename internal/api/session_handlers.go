package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swipehire/interview-engine/internal/models"
)

// --- Admin handlers (API key auth) ---

func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if len(req.ResumeText) < 10 {
		respondError(w, http.StatusBadRequest, "validation_error", "resume_text must be at least 10 characters")
		return
	}

	snap, err := s.manager.Create(r.Context(), req)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	// Build join URL
	domain := s.config.Host
	if domain == "0.0.0.0" {
		domain = "localhost"
	}
	joinURL := fmt.Sprintf("http://%s:%d/session/%s", domain, s.config.Port, snap.Token)

	respondJSON(w, http.StatusCreated, models.CreateInterviewResponse{
		ID:        snap.ID,
		Token:     snap.Token,
		Status:    snap.Status,
		JoinURL:   joinURL,
		CreatedAt: snap.CreatedAt,
	})
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "interview id is required")
		return
	}

	snap, err := s.manager.GetByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDiscardInterview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "interview id is required")
		return
	}

	if err := s.manager.Discard(r.Context(), id); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "interview discarded",
	})
}

// --- Candidate handlers (session token = identity) ---

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.manager.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.manager.Start(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleRecordAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.RecordAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := s.manager.RecordAnswer(r.Context(), chi.URLParam(r, "token"), req.Index, req.Text); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "answer recorded",
	})
}

func (s *Server) handleTickSession(w http.ResponseWriter, r *http.Request) {
	var req models.TickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.DeltaMs <= 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "delta_ms must be positive")
		return
	}

	view, err := s.manager.Tick(r.Context(), chi.URLParam(r, "token"), req.DeltaMs)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleAdvanceSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.manager.Advance(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handlePauseSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.manager.Pause(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleResumeSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.manager.Resume(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.manager.Finish(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleFinalizeSession(w http.ResponseWriter, r *http.Request) {
	result, err := s.manager.Finalize(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
