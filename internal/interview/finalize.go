package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/swipehire/interview-engine/internal/models"
	"github.com/swipehire/interview-engine/internal/scoring"
)

// finalizeJob is the single-use latch for one session's finalization.
// The first caller to observe `finished` with no Result wins and
// performs grading; everyone else waits on done and takes the winner's
// outcome rather than re-invoking the grading service.
type finalizeJob struct {
	done   chan struct{}
	result *models.Result
	err    error
}

// Finalize grades a finished session and attaches its Result exactly
// once. Safe to call concurrently and safe to retry: a grading or
// store failure leaves the session finished and unscored, and the next
// call grades again without double-charging the external service.
func (e *Engine) Finalize(ctx context.Context, token string) (*models.Result, error) {
	sess, err := e.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	snap := sess.Snapshot()
	if snap.Status != models.SessionFinished {
		return nil, fmt.Errorf("%w: finalize requires a finished session", ErrInvalidTransition)
	}
	if snap.Result != nil {
		// Heal a previously failed snapshot write, then hand back the
		// existing Result; grading never runs twice.
		if err := e.store.Save(ctx, &snap); err != nil {
			slog.Warn("failed to re-persist finalized session", "id", snap.ID, "error", err)
		}
		return snap.Result, nil
	}

	e.mu.Lock()
	if job, ok := e.inflight[snap.ID]; ok {
		e.mu.Unlock()
		return e.await(ctx, job)
	}
	job := &finalizeJob{done: make(chan struct{})}
	e.inflight[snap.ID] = job
	e.mu.Unlock()

	job.result, job.err = e.grade(ctx, sess, snap)

	e.mu.Lock()
	delete(e.inflight, snap.ID)
	e.mu.Unlock()
	close(job.done)

	return job.result, job.err
}

// await blocks a losing finalize caller until the winner settles
func (e *Engine) await(ctx context.Context, job *finalizeJob) (*models.Result, error) {
	select {
	case <-job.done:
		return job.result, job.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// grade performs the one grading call and everything downstream of it:
// result attachment, snapshot persistence, roster insert, gate clear.
func (e *Engine) grade(ctx context.Context, sess *Session, snap models.SessionState) (*models.Result, error) {
	res, err := e.grader.Grade(ctx, snap.RoleID, snap.ResumeText, sess.Answers())
	if err != nil {
		if errors.Is(err, scoring.ErrMalformedResponse) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrGradingUnavailable, err)
	}

	if err := sess.AttachResult(res); err != nil {
		// Lost an unexpected race to another writer; return what stuck.
		if cur := sess.Snapshot(); cur.Result != nil {
			return cur.Result, nil
		}
		return nil, err
	}

	final := sess.Snapshot()
	if err := e.store.Save(ctx, &final); err != nil {
		// The Result is attached in memory; retrying finalize re-saves.
		slog.Warn("failed to persist finalized session", "id", final.ID, "error", err)
	}

	record := &models.CandidateRecord{
		ID:             uuid.New().String(),
		SessionID:      final.ID,
		CreatedAt:      time.Now().UTC(),
		Profile:        final.Profile,
		Score:          res.Total,
		Recommendation: res.Recommendation,
		Summary:        res.Summary,
		Stages:         final.Stages,
		ResumeText:     final.ResumeText,
	}
	if err := e.roster.CreateRecord(ctx, record); err != nil {
		slog.Error("failed to insert roster record", "session_id", final.ID, "error", err)
	}

	if err := e.gate.Clear(ctx, final.Token); err != nil {
		slog.Warn("failed to clear gate after finalize", "id", final.ID, "error", err)
	}

	slog.Info("interview finalized",
		"id", final.ID,
		"total", res.Total,
		"recommendation", res.Recommendation,
	)

	return res, nil
}
