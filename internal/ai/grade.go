package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/swipehire/interview-engine/internal/models"
	"github.com/swipehire/interview-engine/internal/scoring"
)

const gradePromptTemplate = `You are a precise technical interviewer for a %s.
Evaluate 6 Q/A pairs. For each question, return {difficulty, score 0..10, notes}.
Then provide a concise summary and a recommendation
(reject | consider | strong-consider | hire). Do NOT include an index field.
Return JSON only:
{"perQuestion":[{"difficulty":"...","score":0,"notes":"..."}],"summary":"...","recommendation":"...","total":0}

Resume (trimmed):
"""%s"""

Q/A:
%s`

// Grade sends the six answered stages to the model and validates the
// response under the strict schema with the relaxed fallback.
func (s *Service) Grade(ctx context.Context, roleID, resumeText string, qas []models.StageAnswer) (*models.Result, error) {
	role := s.roles.Get(roleID)

	var b strings.Builder
	for i, qa := range qas {
		answer := qa.Answer
		if answer == "" {
			answer = "(no answer)"
		}
		fmt.Fprintf(&b, "#%d [%s]\nQ: %s\nA: %s\n\n",
			i+1, strings.ToUpper(string(qa.Difficulty)), qa.Question, answer)
	}

	prompt := fmt.Sprintf(gradePromptTemplate,
		roleContext(role),
		s.trimResume(resumeText, 3000),
		b.String(),
	)

	text, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return scoring.DecodeGradeResponse([]byte(text))
}
