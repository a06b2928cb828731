package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/swipehire/interview-engine/internal/extract"
	"github.com/swipehire/interview-engine/internal/models"
)

const extractPromptTemplate = `You are an expert recruiter. Extract the candidate's name, email, and phone from the resume text.
Return ONLY JSON: {"name":"...","email":"...","phone":"..."}.
If a field is not present, leave it empty but still include the key.

Resume (trimmed):
"""%s"""`

// ExtractProfile pulls name/email/phone from resume text via the
// model, falling back to regex heuristics when the call fails or
// leaves a field empty.
func (s *Service) ExtractProfile(ctx context.Context, resumeText string) (models.CandidateProfile, error) {
	fallback := extract.Fields(resumeText)

	prompt := fmt.Sprintf(extractPromptTemplate, s.trimResume(resumeText, 4000))

	text, err := s.generate(ctx, prompt)
	if err != nil {
		slog.Warn("profile extraction fell back to heuristics", "error", err)
		return fallback, nil
	}

	var profile models.CandidateProfile
	if err := json.Unmarshal([]byte(text), &profile); err != nil {
		slog.Warn("profile extraction returned malformed JSON, using heuristics", "error", err)
		return fallback, nil
	}

	if profile.Name == "" {
		profile.Name = fallback.Name
	}
	if profile.Email == "" {
		profile.Email = fallback.Email
	}
	if profile.Phone == "" {
		profile.Phone = fallback.Phone
	}

	return profile, nil
}
