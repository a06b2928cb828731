package models

import "time"

// CandidateProfile holds the contact fields extracted from a resume
type CandidateProfile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CandidateRecord is one finalized interview attempt as stored in the
// roster for the recruiter dashboard. Written exactly once, at
// Result-attach time.
type CandidateRecord struct {
	ID             string           `json:"id"`
	SessionID      string           `json:"session_id"`
	CreatedAt      time.Time        `json:"created_at"`
	Profile        CandidateProfile `json:"profile"`
	Score          int              `json:"score"` // 0..100
	Recommendation Recommendation   `json:"recommendation"`
	Summary        string           `json:"summary"`
	Stages         []Stage          `json:"stages"` // questions, answers, per-stage scores and notes
	ResumeText     string           `json:"resume_text"`
}

// RosterFilters defines filters for listing candidate records
type RosterFilters struct {
	Recommendation Recommendation
	MinScore       int
	Limit          int
	Offset         int
}
