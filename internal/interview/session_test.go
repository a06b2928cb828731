package interview

import (
	"fmt"
	"testing"

	"github.com/swipehire/interview-engine/internal/models"
)

func testQuestions() []models.QuestionItem {
	items := make([]models.QuestionItem, models.StageCount)
	for i, d := range models.Schedule {
		items[i] = models.QuestionItem{
			Difficulty: d,
			Question:   fmt.Sprintf("question %d (%s)", i+1, d),
		}
	}
	return items
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	sess, err := NewSession("sess-1", "tok-1", testQuestions())
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return sess
}

func TestNewSessionPreloadsFirstStage(t *testing.T) {
	sess := newTestSession(t)

	snap := sess.Snapshot()
	if snap.Status != models.SessionIdle {
		t.Errorf("expected idle, got %s", snap.Status)
	}
	if snap.Current != 0 {
		t.Errorf("expected current 0, got %d", snap.Current)
	}
	if snap.RemainingMs != 20_000 {
		t.Errorf("expected remaining 20000ms (easy), got %d", snap.RemainingMs)
	}
	if len(snap.Stages) != models.StageCount {
		t.Fatalf("expected %d stages, got %d", models.StageCount, len(snap.Stages))
	}
	for i, st := range snap.Stages {
		if st.Difficulty != models.Schedule[i] {
			t.Errorf("stage %d: expected %s, got %s", i, models.Schedule[i], st.Difficulty)
		}
	}
}

func TestNewSessionRejectsBadStageSets(t *testing.T) {
	// Wrong count
	if _, err := NewSession("s", "t", testQuestions()[:5]); err != ErrInvalidStageSet {
		t.Errorf("expected ErrInvalidStageSet for 5 items, got %v", err)
	}

	// Right count, wrong order
	items := testQuestions()
	items[0].Difficulty = models.DifficultyHard
	if _, err := NewSession("s", "t", items); err != ErrInvalidStageSet {
		t.Errorf("expected ErrInvalidStageSet for out-of-order tiers, got %v", err)
	}
}

func TestStartIsIdempotent(t *testing.T) {
	sess := newTestSession(t)

	if err := sess.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if got := sess.Snapshot().Status; got != models.SessionRunning {
		t.Fatalf("expected running, got %s", got)
	}

	// Burn some time, then start again; the countdown must not reset
	sess.Tick(5_000)
	if err := sess.Start(); err != nil {
		t.Fatalf("repeated Start failed: %v", err)
	}
	if got := sess.Snapshot().RemainingMs; got != 15_000 {
		t.Errorf("repeated Start reset the countdown: remaining %d, want 15000", got)
	}
}

func TestTickOnlyDecrementsAndFloorsAtZero(t *testing.T) {
	sess := newTestSession(t)

	// Ticks before start are ignored
	sess.Tick(1_000)
	if got := sess.Snapshot().RemainingMs; got != 20_000 {
		t.Errorf("tick while idle changed remaining to %d", got)
	}

	if err := sess.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	prev := sess.Snapshot().RemainingMs
	for _, delta := range []int64{1_000, 7_000, 0, -500, 50_000, 1_000} {
		sess.Tick(delta)
		got := sess.Snapshot().RemainingMs
		if got > prev {
			t.Errorf("remaining increased from %d to %d after delta %d", prev, got, delta)
		}
		if got < 0 {
			t.Errorf("remaining went negative: %d", got)
		}
		prev = got
	}

	snap := sess.Snapshot()
	if snap.RemainingMs != 0 {
		t.Errorf("expected remaining floored at 0, got %d", snap.RemainingMs)
	}
	// Exhaustion never transitions by itself
	if snap.Status != models.SessionRunning || snap.Current != 0 {
		t.Errorf("tick at zero caused a transition: status=%s current=%d", snap.Status, snap.Current)
	}
}

func TestAdvanceResetsCountdownPerTier(t *testing.T) {
	sess := newTestSession(t)
	if err := sess.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	want := []int64{20_000, 20_000, 60_000, 60_000, 120_000, 120_000}
	for i := 0; i < models.StageCount; i++ {
		snap := sess.Snapshot()
		if snap.Current != i {
			t.Fatalf("expected current %d, got %d", i, snap.Current)
		}
		if snap.RemainingMs != want[i] {
			t.Errorf("stage %d: expected remaining %d, got %d", i, want[i], snap.RemainingMs)
		}
		sess.Tick(want[i]) // exhaust the stage
		if err := sess.Advance(); err != nil {
			t.Fatalf("Advance from stage %d failed: %v", i, err)
		}
	}

	snap := sess.Snapshot()
	if snap.Status != models.SessionFinished {
		t.Errorf("expected finished after advancing off the last stage, got %s", snap.Status)
	}
	if snap.Current != models.StageCount-1 {
		t.Errorf("expected current frozen at %d, got %d", models.StageCount-1, snap.Current)
	}
	if snap.RemainingMs != 0 {
		t.Errorf("expected countdown frozen at 0, got %d", snap.RemainingMs)
	}
}

func TestAdvanceRequiresRunning(t *testing.T) {
	sess := newTestSession(t)
	if err := sess.Advance(); err != ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition while idle, got %v", err)
	}

	sess.Start()
	sess.Pause()
	if err := sess.Advance(); err != ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition while paused, got %v", err)
	}
}

func TestPauseResumePreservesRemaining(t *testing.T) {
	sess := newTestSession(t)
	sess.Start()
	sess.Tick(7_300)

	before := sess.Snapshot().RemainingMs
	if err := sess.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}

	// Ticks while paused are dropped
	sess.Tick(4_000)
	if got := sess.Snapshot().RemainingMs; got != before {
		t.Errorf("tick while paused changed remaining from %d to %d", before, got)
	}

	if err := sess.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	snap := sess.Snapshot()
	if snap.Status != models.SessionRunning {
		t.Errorf("expected running after resume, got %s", snap.Status)
	}
	if snap.RemainingMs != before {
		t.Errorf("resume changed remaining from %d to %d", before, snap.RemainingMs)
	}
}

func TestPauseWinsAtZero(t *testing.T) {
	sess := newTestSession(t)
	sess.Start()
	sess.Tick(20_000)

	// The countdown hit zero but pause still lands; no implicit advance
	if err := sess.Pause(); err != nil {
		t.Fatalf("Pause at zero failed: %v", err)
	}
	snap := sess.Snapshot()
	if snap.Status != models.SessionPaused {
		t.Errorf("expected paused, got %s", snap.Status)
	}
	if snap.Current != 0 {
		t.Errorf("pause at zero advanced the stage to %d", snap.Current)
	}
}

func TestPauseResumeTransitionGuards(t *testing.T) {
	sess := newTestSession(t)

	if err := sess.Pause(); err != ErrInvalidTransition {
		t.Errorf("pause while idle: expected ErrInvalidTransition, got %v", err)
	}
	if err := sess.Resume(); err != ErrInvalidTransition {
		t.Errorf("resume while idle: expected ErrInvalidTransition, got %v", err)
	}

	sess.Start()
	if err := sess.Resume(); err != ErrInvalidTransition {
		t.Errorf("resume while running: expected ErrInvalidTransition, got %v", err)
	}

	sess.Finish()
	if err := sess.Pause(); err != ErrInvalidTransition {
		t.Errorf("pause while finished: expected ErrInvalidTransition, got %v", err)
	}
	if err := sess.Resume(); err != ErrInvalidTransition {
		t.Errorf("resume while finished: expected ErrInvalidTransition, got %v", err)
	}
}

func TestFinishIsIdempotentAndFreezes(t *testing.T) {
	sess := newTestSession(t)
	sess.Start()
	sess.Tick(3_000)
	sess.Advance()
	sess.Tick(5_000)

	before := sess.Snapshot()
	sess.Finish()
	after := sess.Snapshot()

	if after.Status != models.SessionFinished {
		t.Fatalf("expected finished, got %s", after.Status)
	}
	if after.Current != before.Current || after.RemainingMs != before.RemainingMs {
		t.Errorf("finish moved the frozen position: current %d->%d remaining %d->%d",
			before.Current, after.Current, before.RemainingMs, after.RemainingMs)
	}

	first := after.FinishedAt
	sess.Finish()
	again := sess.Snapshot()
	if again.FinishedAt == nil || first == nil || !again.FinishedAt.Equal(*first) {
		t.Error("repeated finish changed FinishedAt")
	}

	// No mutation after finished
	sess.Tick(1_000)
	if got := sess.Snapshot().RemainingMs; got != after.RemainingMs {
		t.Errorf("tick after finish changed remaining to %d", got)
	}
	if err := sess.Advance(); err != ErrInvalidTransition {
		t.Errorf("advance after finish: expected ErrInvalidTransition, got %v", err)
	}
}

func TestRecordAnswer(t *testing.T) {
	sess := newTestSession(t)

	// Legal before start
	if err := sess.RecordAnswer(0, "early answer"); err != nil {
		t.Errorf("answer while idle failed: %v", err)
	}

	sess.Start()

	// Empty text is a legal recorded answer
	if err := sess.RecordAnswer(1, ""); err != nil {
		t.Errorf("empty answer failed: %v", err)
	}

	// Out-of-range indexes
	if err := sess.RecordAnswer(-1, "x"); err != ErrIndexOutOfRange {
		t.Errorf("expected ErrIndexOutOfRange for -1, got %v", err)
	}
	if err := sess.RecordAnswer(models.StageCount, "x"); err != ErrIndexOutOfRange {
		t.Errorf("expected ErrIndexOutOfRange for %d, got %v", models.StageCount, err)
	}

	// Last write wins; answering a non-current stage never moves the timer
	before := sess.Snapshot().RemainingMs
	sess.RecordAnswer(0, "revised answer")
	snap := sess.Snapshot()
	if snap.Stages[0].Answer != "revised answer" {
		t.Errorf("expected last write to win, got %q", snap.Stages[0].Answer)
	}
	if snap.Stages[1].Answer != "" {
		t.Errorf("answer bled into another stage: %q", snap.Stages[1].Answer)
	}
	if snap.RemainingMs != before {
		t.Errorf("recording an answer moved the timer from %d to %d", before, snap.RemainingMs)
	}

	sess.Finish()
	if err := sess.RecordAnswer(0, "too late"); err != ErrInvalidTransition {
		t.Errorf("answer after finish: expected ErrInvalidTransition, got %v", err)
	}
}

func TestResetClearsStagesAndResult(t *testing.T) {
	sess := newTestSession(t)
	sess.Start()
	sess.RecordAnswer(0, "something")
	sess.Finish()

	res := testResult([]int{8, 9, 7, 6, 9, 10})
	if err := sess.AttachResult(res); err != nil {
		t.Fatalf("AttachResult failed: %v", err)
	}

	sess.Reset()
	snap := sess.Snapshot()
	if snap.Status != models.SessionIdle {
		t.Errorf("expected idle after reset, got %s", snap.Status)
	}
	if len(snap.Stages) != 0 || snap.Result != nil {
		t.Error("reset kept stage or result data")
	}
	if snap.ID != "sess-1" || snap.Token != "tok-1" {
		t.Error("reset discarded session identity")
	}

	// A reset session has no stage set and cannot start
	if err := sess.Start(); err != ErrInvalidStageSet {
		t.Errorf("expected ErrInvalidStageSet after reset, got %v", err)
	}
}

func TestAttachResultOnlyOnceAndOnlyFinished(t *testing.T) {
	sess := newTestSession(t)
	res := testResult([]int{5, 5, 5, 5, 5, 5})

	if err := sess.AttachResult(res); err != ErrInvalidTransition {
		t.Errorf("attach while idle: expected ErrInvalidTransition, got %v", err)
	}

	sess.Start()
	sess.Finish()
	if err := sess.AttachResult(res); err != nil {
		t.Fatalf("AttachResult failed: %v", err)
	}
	if err := sess.AttachResult(res); err != ErrInvalidTransition {
		t.Errorf("second attach: expected ErrInvalidTransition, got %v", err)
	}

	snap := sess.Snapshot()
	for i, st := range snap.Stages {
		if st.Score == nil || *st.Score != 5 {
			t.Errorf("stage %d: score not copied onto stage", i)
		}
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	sess := newTestSession(t)
	sess.Start()

	snap := sess.Snapshot()
	snap.Stages[0].Answer = "mutated copy"

	if got := sess.Snapshot().Stages[0].Answer; got != "" {
		t.Errorf("mutating a snapshot leaked into the session: %q", got)
	}
}

// testResult builds a plausible graded Result for the given six scores.
func testResult(scores []int) *models.Result {
	items := make([]models.ScoredStage, len(scores))
	for i, sc := range scores {
		items[i] = models.ScoredStage{
			Difficulty: models.Schedule[i],
			Score:      sc,
			Notes:      "solid reasoning, minor gaps",
		}
	}
	return &models.Result{
		PerQuestion:    items,
		Total:          84,
		Summary:        "Strong candidate with consistent depth across all difficulty tiers.",
		Recommendation: models.RecommendHire,
	}
}
