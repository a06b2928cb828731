package models

// Difficulty is the tier of a single interview stage
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValid returns true if the difficulty is one of the three known tiers
func (d Difficulty) IsValid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// DurationMs returns the allotted answering time for the tier.
// Duration is a pure function of the tier and is never stored or mutated.
func (d Difficulty) DurationMs() int64 {
	switch d {
	case DifficultyEasy:
		return 20_000
	case DifficultyMedium:
		return 60_000
	case DifficultyHard:
		return 120_000
	default:
		return 0
	}
}

// StageCount is the fixed number of stages in every interview
const StageCount = 6

// Schedule is the fixed tier order of the six stages
var Schedule = [StageCount]Difficulty{
	DifficultyEasy, DifficultyEasy,
	DifficultyMedium, DifficultyMedium,
	DifficultyHard, DifficultyHard,
}

// Stage is one question slot within a session
type Stage struct {
	Difficulty Difficulty `json:"difficulty"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	// Score and Notes are absent until the session is finalized
	Score *int   `json:"score,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// QuestionItem is one generated question as returned by the question generator
type QuestionItem struct {
	Difficulty Difficulty `json:"difficulty"`
	Question   string     `json:"question"`
}

// StageAnswer is the (question, answer, difficulty) tuple sent to the grader
type StageAnswer struct {
	Question   string     `json:"q"`
	Answer     string     `json:"a"`
	Difficulty Difficulty `json:"difficulty"`
}
