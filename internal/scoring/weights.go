// Package scoring combines six graded interview stages into a single
// weighted 0..100 total and validates grading-service responses.
package scoring

import (
	"math"

	"github.com/swipehire/interview-engine/internal/models"
)

// Per-tier weights. The schedule (easy,easy,medium,medium,hard,hard)
// makes the weights sum to exactly 100, so an all-perfect interview
// scores 100 and an all-zero interview scores 0.
var tierWeight = map[models.Difficulty]int{
	models.DifficultyEasy:   10,
	models.DifficultyMedium: 15,
	models.DifficultyHard:   25,
}

// Weight returns the contribution ceiling for a tier
func Weight(d models.Difficulty) int {
	return tierWeight[d]
}

// WeightedTotal computes the 0..100 total from per-stage gradings.
// Each stage contributes score*weight/10, so a perfect 10 contributes
// exactly the tier weight. The accumulated sum is rounded half away
// from zero.
func WeightedTotal(items []models.ScoredStage) int {
	var sum float64
	for _, it := range items {
		sum += float64(it.Score) * float64(tierWeight[it.Difficulty]) / 10
	}
	return int(math.Round(sum))
}

// Aggregate returns the authoritative total for a graded session.
// An externally supplied total from a trusted strict-schema response
// wins; the locally computed weighted total is the fallback.
func Aggregate(items []models.ScoredStage, externalTotal *int) int {
	if externalTotal != nil {
		return *externalTotal
	}
	return WeightedTotal(items)
}
