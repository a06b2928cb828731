package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/swipehire/interview-engine/internal/gate"
	"github.com/swipehire/interview-engine/internal/models"
	"github.com/swipehire/interview-engine/internal/storage"
	"github.com/swipehire/interview-engine/internal/store"
)

// QuestionGenerator produces exactly 6 questions in schedule order
// from resume text. Treated as an opaque fallible remote call.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, roleID, resumeText string) ([]models.QuestionItem, error)
}

// Grader evaluates the six answered stages and returns a Result.
// Treated as an opaque fallible remote call; no engine-internal retry.
type Grader interface {
	Grade(ctx context.Context, roleID, resumeText string, qas []models.StageAnswer) (*models.Result, error)
}

// Manager defines the interface for interview session orchestration
type Manager interface {
	Create(ctx context.Context, req models.CreateInterviewRequest) (*models.SessionState, error)
	GetByToken(ctx context.Context, token string) (models.SessionView, error)
	GetByID(ctx context.Context, id string) (*models.SessionState, error)
	Start(ctx context.Context, token string) (models.SessionView, error)
	RecordAnswer(ctx context.Context, token string, index int, text string) error
	Tick(ctx context.Context, token string, deltaMs int64) (models.SessionView, error)
	Advance(ctx context.Context, token string) (models.SessionView, error)
	Pause(ctx context.Context, token string) (models.SessionView, error)
	Resume(ctx context.Context, token string) (models.SessionView, error)
	Finish(ctx context.Context, token string) (models.SessionView, error)
	Finalize(ctx context.Context, token string) (*models.Result, error)
	Discard(ctx context.Context, id string) error
	CleanupStale(ctx context.Context, olderThan time.Duration) int
	Ping(ctx context.Context) error
}

// Engine implements Manager. It owns the live sessions (one lock per
// session, none shared), persists snapshots on every durable
// transition, and opens/clears the gate around the running phase.
type Engine struct {
	mu       sync.RWMutex
	byToken  map[string]*Session
	byID     map[string]*Session
	inflight map[string]*finalizeJob

	store     store.SessionStore
	gate      gate.Gate
	questions QuestionGenerator
	grader    Grader
	roster    storage.Repository
}

// NewEngine creates a new interview engine
func NewEngine(
	sessions store.SessionStore,
	g gate.Gate,
	questions QuestionGenerator,
	grader Grader,
	roster storage.Repository,
) *Engine {
	return &Engine{
		byToken:   make(map[string]*Session),
		byID:      make(map[string]*Session),
		inflight:  make(map[string]*finalizeJob),
		store:     sessions,
		gate:      g,
		questions: questions,
		grader:    grader,
		roster:    roster,
	}
}

// Ping checks the engine's external collaborators
func (e *Engine) Ping(ctx context.Context) error {
	if err := e.store.Ping(ctx); err != nil {
		return fmt.Errorf("session store ping failed: %w", err)
	}
	if err := e.roster.Ping(ctx); err != nil {
		return fmt.Errorf("roster ping failed: %w", err)
	}
	return nil
}

// Create generates the question set, builds a fresh idle session, opens
// its gate and persists the initial snapshot. Each attempt gets a fresh
// identifier; sessions are never reused across participants.
func (e *Engine) Create(ctx context.Context, req models.CreateInterviewRequest) (*models.SessionState, error) {
	items, err := e.questions.GenerateQuestions(ctx, req.RoleID, req.ResumeText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGradingUnavailable, err)
	}

	id := uuid.New().String()[:12]
	token, err := models.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	sess, err := NewSession(id, token, items)
	if err != nil {
		return nil, err
	}
	sess.state.RoleID = req.RoleID
	sess.state.Profile = req.Profile
	sess.state.ResumeText = req.ResumeText

	snap := sess.Snapshot()
	if err := e.store.Save(ctx, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := e.gate.Open(ctx, token, id); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.mu.Lock()
	e.byToken[token] = sess
	e.byID[id] = sess
	e.mu.Unlock()

	slog.Info("interview session created",
		"id", id,
		"role", req.RoleID,
		"candidate", req.Profile.Name,
	)

	return &snap, nil
}

// resolve finds the live session for a token, falling back to the gate
// and the session store (the resume-after-restart path). The store is
// consulted at most once per resume; the rebuilt session is cached.
func (e *Engine) resolve(ctx context.Context, token string) (*Session, error) {
	e.mu.RLock()
	sess, ok := e.byToken[token]
	e.mu.RUnlock()
	if ok {
		return sess, nil
	}

	id, err := e.gate.Check(ctx, token)
	if err != nil {
		if errors.Is(err, gate.ErrNotReady) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	snap, err := e.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	sess = FromSnapshot(*snap)

	e.mu.Lock()
	// Another request may have resumed the same session concurrently;
	// the first registration wins so there is a single live owner.
	if existing, ok := e.byToken[token]; ok {
		sess = existing
	} else {
		e.byToken[token] = sess
		e.byID[snap.ID] = sess
	}
	e.mu.Unlock()

	slog.Info("interview session resumed from store", "id", snap.ID, "status", snap.Status)
	return sess, nil
}

// GetByToken returns the candidate-facing view of a session
func (e *Engine) GetByToken(ctx context.Context, token string) (models.SessionView, error) {
	sess, err := e.resolve(ctx, token)
	if err != nil {
		return models.SessionView{}, err
	}
	snap := sess.Snapshot()
	return snap.View(), nil
}

// GetByID returns the full session snapshot (admin surface)
func (e *Engine) GetByID(ctx context.Context, id string) (*models.SessionState, error) {
	e.mu.RLock()
	sess, ok := e.byID[id]
	e.mu.RUnlock()
	if ok {
		snap := sess.Snapshot()
		return &snap, nil
	}

	snap, err := e.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return snap, nil
}

// Start begins the countdown. Idempotent: repeated starts never reset
// the remaining time.
func (e *Engine) Start(ctx context.Context, token string) (models.SessionView, error) {
	return e.transition(ctx, token, "start", func(s *Session) error { return s.Start() })
}

// RecordAnswer stores answer text for one stage. Timer and status are
// untouched; the snapshot is persisted at the next durable transition.
func (e *Engine) RecordAnswer(ctx context.Context, token string, index int, text string) error {
	sess, err := e.resolve(ctx, token)
	if err != nil {
		return err
	}
	return sess.RecordAnswer(index, text)
}

// Tick applies an elapsed-time delta. Ticks mutate only in-memory
// state; they are applied in arrival order by the session lock.
func (e *Engine) Tick(ctx context.Context, token string, deltaMs int64) (models.SessionView, error) {
	sess, err := e.resolve(ctx, token)
	if err != nil {
		return models.SessionView{}, err
	}
	sess.Tick(deltaMs)
	snap := sess.Snapshot()
	return snap.View(), nil
}

// Advance moves to the next stage (or finishes from the last one)
func (e *Engine) Advance(ctx context.Context, token string) (models.SessionView, error) {
	return e.transition(ctx, token, "advance", func(s *Session) error { return s.Advance() })
}

// Pause freezes the countdown (disconnect/backgrounding)
func (e *Engine) Pause(ctx context.Context, token string) (models.SessionView, error) {
	return e.transition(ctx, token, "pause", func(s *Session) error { return s.Pause() })
}

// Resume continues a paused countdown with no drift
func (e *Engine) Resume(ctx context.Context, token string) (models.SessionView, error) {
	return e.transition(ctx, token, "resume", func(s *Session) error { return s.Resume() })
}

// Finish forces the terminal state (early submit). Idempotent.
func (e *Engine) Finish(ctx context.Context, token string) (models.SessionView, error) {
	return e.transition(ctx, token, "finish", func(s *Session) error { s.Finish(); return nil })
}

// transition applies a state-machine operation and persists the
// resulting snapshot. A store failure is surfaced as retriable and
// never corrupts the in-memory state.
func (e *Engine) transition(ctx context.Context, token, name string, op func(*Session) error) (models.SessionView, error) {
	sess, err := e.resolve(ctx, token)
	if err != nil {
		return models.SessionView{}, err
	}

	if err := op(sess); err != nil {
		return models.SessionView{}, err
	}

	snap := sess.Snapshot()
	if err := e.store.Save(ctx, &snap); err != nil {
		slog.Warn("failed to persist session transition",
			"id", snap.ID,
			"op", name,
			"error", err,
		)
		return models.SessionView{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	slog.Debug("session transition",
		"id", snap.ID,
		"op", name,
		"status", snap.Status,
		"stage", snap.Current,
		"remaining_ms", snap.RemainingMs,
	)

	return snap.View(), nil
}

// Discard removes a session entirely: live state, stored snapshot and
// gate flag. Used by the cleanup worker, the admin delete endpoint and
// the candidate's explicit "discard and retry" path.
func (e *Engine) Discard(ctx context.Context, id string) error {
	e.mu.Lock()
	sess, ok := e.byID[id]
	var token string
	if ok {
		token = sess.Snapshot().Token
		delete(e.byID, id)
		delete(e.byToken, token)
	}
	e.mu.Unlock()

	if !ok {
		snap, err := e.store.Get(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		token = snap.Token
	}

	if err := e.store.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if token != "" {
		if err := e.gate.Clear(ctx, token); err != nil {
			slog.Warn("failed to clear gate", "id", id, "error", err)
		}
	}

	slog.Info("interview session discarded", "id", id)
	return nil
}

// CleanupStale discards live sessions older than the given age.
// Pause-timeout policy lives here, outside the state machine.
func (e *Engine) CleanupStale(ctx context.Context, olderThan time.Duration) int {
	cutoff := time.Now().UTC().Add(-olderThan)

	e.mu.RLock()
	var stale []string
	for id, sess := range e.byID {
		if sess.Snapshot().CreatedAt.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	e.mu.RUnlock()

	removed := 0
	for _, id := range stale {
		if err := e.Discard(ctx, id); err != nil {
			slog.Error("failed to discard stale session", "id", id, "error", err)
			continue
		}
		removed++
	}
	return removed
}
