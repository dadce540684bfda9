package model

import (
	"time"

	"github.com/google/uuid"
)

// CandidateStatus tracks a candidate through the hiring pipeline.
type CandidateStatus string

const (
	CandidateStatusApplied     CandidateStatus = "applied"
	CandidateStatusInterviewed CandidateStatus = "interviewed"
	CandidateStatusCompleted   CandidateStatus = "completed"
)

// Candidate is the persisted candidate aggregate. Its interviews are loaded
// separately, ordered by start time, and mutated only through interview
// transitions.
type Candidate struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	ResumeURL  string          `json:"resume_url,omitempty"`
	ResumeText string          `json:"-"`
	Status     CandidateStatus `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ExtractedIdentity holds best-effort identity fields recovered from resume
// text. Never persisted directly: it is merged with user-supplied values,
// and the user value wins whenever it is present and valid.
type ExtractedIdentity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// RegisterCandidateRequest is the payload for registering a candidate.
// Identity fields may be blank when the resume text carries them.
type RegisterCandidateRequest struct {
	Name       string `json:"name" binding:"omitempty,max=100"`
	Email      string `json:"email" binding:"omitempty,max=255"`
	Phone      string `json:"phone" binding:"omitempty,max=30"`
	ResumeText string `json:"resume_text" binding:"omitempty"`
	ResumeURL  string `json:"resume_url" binding:"omitempty,max=512"`
}

// UpdateIdentityRequest is the payload for an operator correcting candidate
// identity fields.
type UpdateIdentityRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=100"`
	Email string `json:"email" binding:"required,email,max=255"`
	Phone string `json:"phone" binding:"required,min=10,max=30"`
}

// DashboardStats aggregates candidate pipeline counts for the operator view.
type DashboardStats struct {
	TotalCandidates int      `json:"total_candidates"`
	Applied         int      `json:"applied"`
	Interviewed     int      `json:"interviewed"`
	Completed       int      `json:"completed"`
	AverageScore    *float64 `json:"average_score,omitempty"`
}
