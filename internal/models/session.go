package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// SessionStatus represents the lifecycle state of an interview session
type SessionStatus string

const (
	SessionIdle     SessionStatus = "idle"     // Created, questions loaded, not started
	SessionRunning  SessionStatus = "running"  // Countdown ticking
	SessionPaused   SessionStatus = "paused"   // Countdown frozen (disconnect/backgrounding)
	SessionFinished SessionStatus = "finished" // Terminal; only reads permitted once a Result is attached
)

// SessionState is the serializable snapshot of one interview session.
// It is what the session store round-trips; the live state machine in
// internal/interview owns mutation.
type SessionState struct {
	ID          string           `json:"id"`
	Token       string           `json:"token"`
	RoleID      string           `json:"role_id,omitempty"`
	Stages      []Stage          `json:"stages"` // exactly 6 once created
	Current     int              `json:"current"`
	RemainingMs int64            `json:"remaining_ms"`
	Status      SessionStatus    `json:"status"`
	Result      *Result          `json:"result,omitempty"`
	Profile     CandidateProfile `json:"profile"`
	ResumeText  string           `json:"resume_text"`
	CreatedAt   time.Time        `json:"created_at"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	FinishedAt  *time.Time       `json:"finished_at,omitempty"`
}

// IsTerminal returns true if the session is in a final state
func (s *SessionState) IsTerminal() bool {
	return s.Status == SessionFinished
}

// GenerateSessionToken creates a cryptographically random 48-char hex token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, 24)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CreateInterviewRequest is the admin request to create a session
type CreateInterviewRequest struct {
	ResumeText string           `json:"resume_text"`
	RoleID     string           `json:"role_id,omitempty"`
	Profile    CandidateProfile `json:"profile"`
}

// CreateInterviewResponse is returned after creating a session
type CreateInterviewResponse struct {
	ID        string        `json:"id"`
	Token     string        `json:"token"`
	Status    SessionStatus `json:"status"`
	JoinURL   string        `json:"join_url"`
	CreatedAt time.Time     `json:"created_at"`
}

// SessionView is the candidate-facing projection of a session
type SessionView struct {
	ID          string        `json:"id"`
	Stages      []Stage       `json:"stages"`
	Current     int           `json:"current"`
	RemainingMs int64         `json:"remaining_ms"`
	Status      SessionStatus `json:"status"`
	Result      *Result       `json:"result,omitempty"`
}

// View builds the candidate-facing projection of the snapshot
func (s *SessionState) View() SessionView {
	return SessionView{
		ID:          s.ID,
		Stages:      s.Stages,
		Current:     s.Current,
		RemainingMs: s.RemainingMs,
		Status:      s.Status,
		Result:      s.Result,
	}
}

// RecordAnswerRequest stores answer text for one stage
type RecordAnswerRequest struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// TickRequest applies an elapsed-time delta to the running countdown
type TickRequest struct {
	DeltaMs int64 `json:"delta_ms"`
}
