package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/swipehire/interview-engine/internal/models"
)

// ErrMalformedResponse means the grading response failed even the
// relaxed schema. Input-validation class: never retried as-is.
var ErrMalformedResponse = errors.New("grading response failed validation")

// rawGrade is the wire shape of a grading-service response. Auxiliary
// fields the strict schema forbids (like a per-item index) are
// tolerated at decode time and judged during validation.
type rawGrade struct {
	PerQuestion []rawGradeItem `json:"perQuestion"`
	Summary     string         `json:"summary"`
	Recommend   string         `json:"recommendation"`
	Total       *float64       `json:"total,omitempty"`
}

type rawGradeItem struct {
	Index      *float64 `json:"index,omitempty"`
	Difficulty string   `json:"difficulty"`
	Score      float64  `json:"score"`
	Notes      string   `json:"notes"`
}

// DecodeGradeResponse parses a grading response under the strict
// schema and, if that fails, under the relaxed fallback schema.
//
// Strict: exactly 6 items (difficulty, integer score 0..10, notes
// 3..600 chars), summary 30..700 chars, recommendation from the fixed
// set, optional already-weighted total 0..100 which is authoritative.
//
// Relaxed: at least 6 items with the same per-item constraints (notes
// only need 3 chars), summary at least 10 chars, recommendation still
// from the fixed set. Extra items are truncated to the first 6 in
// stage order, auxiliary fields are discarded, and the total is always
// recomputed locally. A wrong recommendation value is never masked by
// the fallback.
func DecodeGradeResponse(data []byte) (*models.Result, error) {
	var raw rawGrade
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if res, err := decodeStrict(&raw); err == nil {
		return res, nil
	}

	return decodeRelaxed(&raw)
}

func decodeStrict(raw *rawGrade) (*models.Result, error) {
	if len(raw.PerQuestion) != models.StageCount {
		return nil, fmt.Errorf("%w: expected exactly %d graded items, got %d",
			ErrMalformedResponse, models.StageCount, len(raw.PerQuestion))
	}
	if n := len(raw.Summary); n < 30 || n > 700 {
		return nil, fmt.Errorf("%w: summary length %d outside 30..700", ErrMalformedResponse, n)
	}

	items := make([]models.ScoredStage, 0, models.StageCount)
	for i, it := range raw.PerQuestion {
		if it.Index != nil {
			return nil, fmt.Errorf("%w: item %d carries an index field", ErrMalformedResponse, i)
		}
		scored, err := validateItem(i, it, 600)
		if err != nil {
			return nil, err
		}
		items = append(items, scored)
	}

	rec := models.Recommendation(raw.Recommend)
	if !rec.IsValid() {
		return nil, fmt.Errorf("%w: unknown recommendation %q", ErrMalformedResponse, raw.Recommend)
	}

	var external *int
	if raw.Total != nil {
		t, ok := asInt(*raw.Total)
		if !ok || t < 0 || t > 100 {
			return nil, fmt.Errorf("%w: total %v outside 0..100", ErrMalformedResponse, *raw.Total)
		}
		external = &t
	}

	return &models.Result{
		PerQuestion:    items,
		Total:          Aggregate(items, external),
		Summary:        raw.Summary,
		Recommendation: rec,
	}, nil
}

func decodeRelaxed(raw *rawGrade) (*models.Result, error) {
	if len(raw.PerQuestion) < models.StageCount {
		return nil, fmt.Errorf("%w: expected at least %d graded items, got %d",
			ErrMalformedResponse, models.StageCount, len(raw.PerQuestion))
	}
	if len(raw.Summary) < 10 {
		return nil, fmt.Errorf("%w: summary too short", ErrMalformedResponse)
	}

	rec := models.Recommendation(raw.Recommend)
	if !rec.IsValid() {
		return nil, fmt.Errorf("%w: unknown recommendation %q", ErrMalformedResponse, raw.Recommend)
	}

	items := make([]models.ScoredStage, 0, models.StageCount)
	for i, it := range raw.PerQuestion[:models.StageCount] {
		scored, err := validateItem(i, it, 0)
		if err != nil {
			return nil, err
		}
		items = append(items, scored)
	}

	// A response that failed strict validation is not trusted for an
	// already-weighted total; recompute from the per-stage scores.
	return &models.Result{
		PerQuestion:    items,
		Total:          WeightedTotal(items),
		Summary:        raw.Summary,
		Recommendation: rec,
	}, nil
}

func validateItem(i int, it rawGradeItem, maxNotes int) (models.ScoredStage, error) {
	d := models.Difficulty(it.Difficulty)
	if !d.IsValid() {
		return models.ScoredStage{}, fmt.Errorf("%w: item %d has unknown difficulty %q",
			ErrMalformedResponse, i, it.Difficulty)
	}

	score, ok := asInt(it.Score)
	if !ok || score < 0 || score > 10 {
		return models.ScoredStage{}, fmt.Errorf("%w: item %d score %v outside 0..10",
			ErrMalformedResponse, i, it.Score)
	}

	if len(it.Notes) < 3 {
		return models.ScoredStage{}, fmt.Errorf("%w: item %d notes too short", ErrMalformedResponse, i)
	}
	if maxNotes > 0 && len(it.Notes) > maxNotes {
		return models.ScoredStage{}, fmt.Errorf("%w: item %d notes exceed %d chars",
			ErrMalformedResponse, i, maxNotes)
	}

	return models.ScoredStage{Difficulty: d, Score: score, Notes: it.Notes}, nil
}

func asInt(f float64) (int, bool) {
	if f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
