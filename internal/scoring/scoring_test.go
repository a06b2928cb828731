package scoring

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/swipehire/interview-engine/internal/models"
)

func uniformItems(score int) []models.ScoredStage {
	items := make([]models.ScoredStage, models.StageCount)
	for i, d := range models.Schedule {
		items[i] = models.ScoredStage{Difficulty: d, Score: score, Notes: "ok."}
	}
	return items
}

func scoredItems(scores []int) []models.ScoredStage {
	items := make([]models.ScoredStage, len(scores))
	for i, sc := range scores {
		items[i] = models.ScoredStage{Difficulty: models.Schedule[i], Score: sc, Notes: "ok."}
	}
	return items
}

func TestWeightedTotalBounds(t *testing.T) {
	if got := WeightedTotal(uniformItems(10)); got != 100 {
		t.Errorf("all-perfect interview: expected 100, got %d", got)
	}
	if got := WeightedTotal(uniformItems(0)); got != 0 {
		t.Errorf("all-zero interview: expected 0, got %d", got)
	}
	if got := WeightedTotal(uniformItems(5)); got != 50 {
		t.Errorf("uniform fives: expected 50, got %d", got)
	}
}

func TestWeightedTotalWorkedExample(t *testing.T) {
	// 8*1 + 9*1 + 7*1.5 + 6*1.5 + 9*2.5 + 10*2.5 = 83.9 -> 84
	got := WeightedTotal(scoredItems([]int{8, 9, 7, 6, 9, 10}))
	if got != 84 {
		t.Errorf("expected 84, got %d", got)
	}
}

func TestWeightedTotalRounding(t *testing.T) {
	// 3*1 + 0 + 1*1.5 + 0 + 0 + 0 = 4.5; half rounds away from zero
	got := WeightedTotal(scoredItems([]int{3, 0, 1, 0, 0, 0}))
	if got != 5 {
		t.Errorf("expected 4.5 to round to 5, got %d", got)
	}
}

func TestAggregatePrefersExternalTotal(t *testing.T) {
	items := scoredItems([]int{8, 9, 7, 6, 9, 10})

	ext := 80
	if got := Aggregate(items, &ext); got != 80 {
		t.Errorf("external total should win: expected 80, got %d", got)
	}
	if got := Aggregate(items, nil); got != 84 {
		t.Errorf("nil external should fall back to weighted total: expected 84, got %d", got)
	}
}

// --- decode ---

const validSummary = "The candidate shows solid fundamentals with room to grow in system design."

func gradeJSON(itemLines []string, summary, rec, total string) []byte {
	body := fmt.Sprintf(`{"perQuestion":[%s],"summary":%q,"recommendation":%q`,
		strings.Join(itemLines, ","), summary, rec)
	if total != "" {
		body += `,"total":` + total
	}
	return []byte(body + "}")
}

func strictItems(scores []int) []string {
	lines := make([]string, len(scores))
	for i, sc := range scores {
		lines[i] = fmt.Sprintf(`{"difficulty":%q,"score":%d,"notes":"clear and correct reasoning"}`,
			models.Schedule[i%models.StageCount], sc)
	}
	return lines
}

func TestDecodeStrict(t *testing.T) {
	res, err := DecodeGradeResponse(gradeJSON(strictItems([]int{8, 9, 7, 6, 9, 10}), validSummary, "hire", ""))
	if err != nil {
		t.Fatalf("DecodeGradeResponse failed: %v", err)
	}

	if len(res.PerQuestion) != models.StageCount {
		t.Fatalf("expected %d items, got %d", models.StageCount, len(res.PerQuestion))
	}
	if res.Total != 84 {
		t.Errorf("expected computed total 84, got %d", res.Total)
	}
	if res.Recommendation != models.RecommendHire {
		t.Errorf("expected hire, got %s", res.Recommendation)
	}
}

func TestDecodeStrictExternalTotalAuthoritative(t *testing.T) {
	res, err := DecodeGradeResponse(gradeJSON(strictItems([]int{8, 9, 7, 6, 9, 10}), validSummary, "consider", "80"))
	if err != nil {
		t.Fatalf("DecodeGradeResponse failed: %v", err)
	}
	if res.Total != 80 {
		t.Errorf("strict external total must win over computed 84, got %d", res.Total)
	}
}

func TestDecodeRelaxedTruncatesExtraItems(t *testing.T) {
	// 8 items fails strict (exactly 6) but passes relaxed; the first 6
	// survive and the total is recomputed, ignoring the extras.
	items := strictItems([]int{8, 9, 7, 6, 9, 10, 10, 10})
	res, err := DecodeGradeResponse(gradeJSON(items, validSummary, "hire", ""))
	if err != nil {
		t.Fatalf("DecodeGradeResponse failed: %v", err)
	}
	if len(res.PerQuestion) != models.StageCount {
		t.Fatalf("expected truncation to %d items, got %d", models.StageCount, len(res.PerQuestion))
	}
	if res.Total != 84 {
		t.Errorf("expected recomputed total 84 from first 6 items, got %d", res.Total)
	}
}

func TestDecodeRelaxedIgnoresExternalTotal(t *testing.T) {
	// Index fields break strict; relaxed tolerates them but never trusts
	// the external total from a response that failed strict validation.
	lines := make([]string, models.StageCount)
	scores := []int{8, 9, 7, 6, 9, 10}
	for i, sc := range scores {
		lines[i] = fmt.Sprintf(`{"index":%d,"difficulty":%q,"score":%d,"notes":"fine"}`,
			i, models.Schedule[i], sc)
	}
	res, err := DecodeGradeResponse(gradeJSON(lines, validSummary, "hire", "12"))
	if err != nil {
		t.Fatalf("DecodeGradeResponse failed: %v", err)
	}
	if res.Total != 84 {
		t.Errorf("relaxed path must recompute the total: expected 84, got %d", res.Total)
	}
}

func TestDecodeRelaxedShortSummaryAndNotes(t *testing.T) {
	// Summary below 30 chars fails strict but passes relaxed (>= 10)
	res, err := DecodeGradeResponse(gradeJSON(strictItems([]int{5, 5, 5, 5, 5, 5}), "Decent overall.", "consider", ""))
	if err != nil {
		t.Fatalf("short summary should pass relaxed: %v", err)
	}
	if res.Total != 50 {
		t.Errorf("expected total 50, got %d", res.Total)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"not json", []byte(`{"perQuestion": [`)},
		{"too few items", gradeJSON(strictItems([]int{5, 5, 5, 5, 5}), validSummary, "hire", "")},
		{"summary too short for both schemas", gradeJSON(strictItems([]int{5, 5, 5, 5, 5, 5}), "short", "hire", "")},
		{"unknown recommendation", gradeJSON(strictItems([]int{5, 5, 5, 5, 5, 5}), validSummary, "maybe", "")},
		{"empty recommendation", gradeJSON(strictItems([]int{5, 5, 5, 5, 5, 5}), validSummary, "", "")},
		{"score out of range", gradeJSON(strictItems([]int{11, 5, 5, 5, 5, 5}), validSummary, "hire", "")},
		{"negative score", gradeJSON(strictItems([]int{-1, 5, 5, 5, 5, 5}), validSummary, "hire", "")},
		{"fractional score", gradeJSON(
			[]string{`{"difficulty":"easy","score":7.5,"notes":"ok then"}`,
				strictItems([]int{5, 5, 5, 5, 5})[1],
				strictItems([]int{5, 5, 5, 5, 5})[2],
				strictItems([]int{5, 5, 5, 5, 5})[3],
				strictItems([]int{5, 5, 5, 5, 5})[4],
				`{"difficulty":"hard","score":5,"notes":"ok then"}`},
			validSummary, "hire", "")},
		{"unknown difficulty", gradeJSON(
			append([]string{`{"difficulty":"extreme","score":5,"notes":"ok then"}`}, strictItems([]int{5, 5, 5, 5, 5})...),
			validSummary, "hire", "")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeGradeResponse(tc.data); !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestDecodeWrongRecommendationNeverMasked(t *testing.T) {
	// A response that would otherwise decode fine fails hard on a bad
	// recommendation; the relaxed fallback does not paper over it.
	items := strictItems([]int{8, 9, 7, 6, 9, 10, 10})
	if _, err := DecodeGradeResponse(gradeJSON(items, validSummary, "definitely-hire", "")); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse for unknown recommendation, got %v", err)
	}
}

func TestDecodeStrictRejectsBadExternalTotal(t *testing.T) {
	// total outside 0..100 fails strict; relaxed then accepts the items
	// and recomputes, because the relaxed schema ignores the total field.
	res, err := DecodeGradeResponse(gradeJSON(strictItems([]int{5, 5, 5, 5, 5, 5}), validSummary, "hire", "250"))
	if err != nil {
		t.Fatalf("expected relaxed fallback to recover, got %v", err)
	}
	if res.Total != 50 {
		t.Errorf("expected recomputed total 50, got %d", res.Total)
	}
}

func TestDecodeRecommendationIndependentOfTotal(t *testing.T) {
	// A reject verdict rides alongside a high total untouched.
	res, err := DecodeGradeResponse(gradeJSON(strictItems([]int{10, 10, 10, 10, 10, 10}), validSummary, "reject", ""))
	if err != nil {
		t.Fatalf("DecodeGradeResponse failed: %v", err)
	}
	if res.Total != 100 || res.Recommendation != models.RecommendReject {
		t.Errorf("expected total 100 with reject, got %d / %s", res.Total, res.Recommendation)
	}
}
