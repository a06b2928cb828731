package interview

import (
	"sync"
	"time"

	"github.com/swipehire/interview-engine/internal/models"
)

// Session is the live state machine for one interview attempt.
//
// All operations serialize on the session's own lock, so tick, advance,
// finish and recordAnswer never interleave. Distinct sessions share no
// mutable state and run fully in parallel.
type Session struct {
	mu    sync.Mutex
	state models.SessionState
}

// NewSession creates a session in `idle` from exactly 6 generated
// questions ordered (easy,easy,medium,medium,hard,hard). The countdown
// is preloaded with the duration of stage 0.
func NewSession(id, token string, items []models.QuestionItem) (*Session, error) {
	if len(items) != models.StageCount {
		return nil, ErrInvalidStageSet
	}

	stages := make([]models.Stage, models.StageCount)
	for i, it := range items {
		if it.Difficulty != models.Schedule[i] {
			return nil, ErrInvalidStageSet
		}
		stages[i] = models.Stage{
			Difficulty: it.Difficulty,
			Question:   it.Question,
		}
	}

	return &Session{
		state: models.SessionState{
			ID:          id,
			Token:       token,
			Stages:      stages,
			Current:     0,
			RemainingMs: stages[0].Difficulty.DurationMs(),
			Status:      models.SessionIdle,
			CreatedAt:   time.Now().UTC(),
		},
	}, nil
}

// FromSnapshot rebuilds a live session from a stored snapshot
// (the resume-across-restart path).
func FromSnapshot(st models.SessionState) *Session {
	return &Session{state: st}
}

// Snapshot returns a deep copy of the session state for persistence
// or read-only inspection.
func (s *Session) Snapshot() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() models.SessionState {
	st := s.state
	st.Stages = append([]models.Stage(nil), s.state.Stages...)
	if s.state.Result != nil {
		res := *s.state.Result
		res.PerQuestion = append([]models.ScoredStage(nil), s.state.Result.PerQuestion...)
		st.Result = &res
	}
	return st
}

// Start transitions idle → running. Repeated starts while already
// running (or paused/finished) are a no-op and never reset the
// countdown. Starting without a full stage set fails.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.state.Stages) != models.StageCount {
		return ErrInvalidStageSet
	}
	if s.state.Status != models.SessionIdle {
		return nil // idempotent guard
	}

	now := time.Now().UTC()
	s.state.Status = models.SessionRunning
	s.state.StartedAt = &now
	return nil
}

// RecordAnswer stores answer text for the given stage. Legal in any
// non-terminal status; empty text is legal (graded as "no answer").
// Answers for distinct stages are independent; repeated writes to one
// index are last-write-wins. Does not touch timer or status.
func (s *Session) RecordAnswer(index int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status == models.SessionFinished {
		return ErrInvalidTransition
	}
	if index < 0 || index >= len(s.state.Stages) {
		return ErrIndexOutOfRange
	}

	s.state.Stages[index].Answer = text
	return nil
}

// Tick applies an elapsed-time delta to the running countdown. The
// remaining time floors at 0 and never goes negative. No stage
// transition happens here; advancing is the caller's explicit call.
func (s *Session) Tick(deltaMs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status != models.SessionRunning || deltaMs <= 0 {
		return
	}

	s.state.RemainingMs -= deltaMs
	if s.state.RemainingMs < 0 {
		s.state.RemainingMs = 0
	}
}

// Advance moves to the next stage, resetting the countdown to the new
// stage's full duration. From the last stage it transitions to
// finished with the countdown frozen. Only legal while running.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status != models.SessionRunning {
		return ErrInvalidTransition
	}

	if s.state.Current < len(s.state.Stages)-1 {
		s.state.Current++
		s.state.RemainingMs = s.state.Stages[s.state.Current].Difficulty.DurationMs()
		return nil
	}

	s.finishLocked()
	return nil
}

// Finish forces the terminal state regardless of the current stage
// (early submit). Finishing an already-finished session is a no-op.
func (s *Session) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishLocked()
}

func (s *Session) finishLocked() {
	if s.state.Status == models.SessionFinished {
		return
	}
	now := time.Now().UTC()
	s.state.Status = models.SessionFinished
	s.state.FinishedAt = &now
}

// Pause freezes the countdown at its current value, even at zero
// (pause wins the race against natural expiry; an explicit advance or
// finish is required afterwards). Only legal while running.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status != models.SessionRunning {
		return ErrInvalidTransition
	}
	s.state.Status = models.SessionPaused
	return nil
}

// Resume continues the countdown from where Pause froze it. No credit
// or penalty for the pause interval. Only legal while paused.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status != models.SessionPaused {
		return ErrInvalidTransition
	}
	s.state.Status = models.SessionRunning
	return nil
}

// Reset discards all stage and result data and returns the session to
// the initial empty state. Identity and candidate context survive so
// the participant can attempt again under a fresh question set.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Stages = nil
	s.state.Current = 0
	s.state.RemainingMs = 0
	s.state.Status = models.SessionIdle
	s.state.Result = nil
	s.state.StartedAt = nil
	s.state.FinishedAt = nil
}

// AttachResult attaches the one and only Result to a finished session
// and copies per-stage scores onto the stages. Illegal unless the
// session is finished and unscored.
func (s *Session) AttachResult(res *models.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status != models.SessionFinished || s.state.Result != nil {
		return ErrInvalidTransition
	}

	for i := range s.state.Stages {
		if i < len(res.PerQuestion) {
			score := res.PerQuestion[i].Score
			s.state.Stages[i].Score = &score
			s.state.Stages[i].Notes = res.PerQuestion[i].Notes
		}
	}
	s.state.Result = res
	return nil
}

// Answers returns the (question, answer, difficulty) tuples in stage
// order, as the grading service expects them.
func (s *Session) Answers() []models.StageAnswer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.StageAnswer, len(s.state.Stages))
	for i, st := range s.state.Stages {
		out[i] = models.StageAnswer{
			Question:   st.Question,
			Answer:     st.Answer,
			Difficulty: st.Difficulty,
		}
	}
	return out
}
