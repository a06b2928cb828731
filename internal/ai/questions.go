package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/swipehire/interview-engine/internal/models"
)

const questionPromptTemplate = `You are an expert interviewer for a %s.
Generate exactly 6 concise interview questions in this order:
1-2 EASY (20s), 3-4 MEDIUM (60s), 5-6 HARD (120s).
Keep each question clear, specific, and answerable within the allotted time.
Keep each question between 8 and 240 characters.
Return JSON only: {"items":[{"difficulty":"easy|medium|hard","question":"..."}, ...]}

Candidate resume context (trimmed):
"""%s"""`

type questionsResponse struct {
	Items []models.QuestionItem `json:"items"`
}

// GenerateQuestions asks the model for 6 questions and enforces the
// fixed schedule order (easy,easy,medium,medium,hard,hard) on the
// response before it reaches the session.
func (s *Service) GenerateQuestions(ctx context.Context, roleID, resumeText string) ([]models.QuestionItem, error) {
	role := s.roles.Get(roleID)
	prompt := fmt.Sprintf(questionPromptTemplate, roleContext(role), s.trimResume(resumeText, 4000))

	text, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var resp questionsResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse questions response: %w", err)
	}

	if len(resp.Items) < models.StageCount {
		return nil, fmt.Errorf("expected %d questions, got %d", models.StageCount, len(resp.Items))
	}

	// The schedule is authoritative; the model's own difficulty labels
	// are discarded in favor of positional tiers.
	items := make([]models.QuestionItem, models.StageCount)
	for i := 0; i < models.StageCount; i++ {
		q := resp.Items[i].Question
		if len(q) < 8 {
			return nil, fmt.Errorf("question %d too short", i)
		}
		if len(q) > 240 {
			q = q[:240]
		}
		items[i] = models.QuestionItem{
			Difficulty: models.Schedule[i],
			Question:   q,
		}
	}

	return items, nil
}
