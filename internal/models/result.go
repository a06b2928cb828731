package models

// Recommendation is the discrete hiring verdict supplied by the grader.
// It is passed through unmodified and is never derived from the total.
type Recommendation string

const (
	RecommendReject         Recommendation = "reject"
	RecommendConsider       Recommendation = "consider"
	RecommendStrongConsider Recommendation = "strong-consider"
	RecommendHire           Recommendation = "hire"
)

// IsValid returns true if the recommendation is one of the four known categories
func (r Recommendation) IsValid() bool {
	switch r {
	case RecommendReject, RecommendConsider, RecommendStrongConsider, RecommendHire:
		return true
	}
	return false
}

// ScoredStage is a single graded item within a Result
type ScoredStage struct {
	Difficulty Difficulty `json:"difficulty"`
	Score      int        `json:"score"` // 0..10
	Notes      string     `json:"notes"`
}

// Result is the single scored outcome of a finished session.
// Produced exactly once; the session is immutable afterwards.
type Result struct {
	PerQuestion    []ScoredStage  `json:"per_question"` // stage order, exactly 6
	Total          int            `json:"total"`        // 0..100
	Summary        string         `json:"summary"`
	Recommendation Recommendation `json:"recommendation"`
}
