package model

import (
	"time"

	"github.com/google/uuid"
)

// InterviewState enumerates the candidate's interview lifecycle states.
// The state is derived once per operation from the interview list and
// dispatched on explicitly.
type InterviewState string

const (
	StateNotStarted InterviewState = "NOT_STARTED"
	StateInProgress InterviewState = "IN_PROGRESS"
	StateCompleted  InterviewState = "COMPLETED"
)

// Difficulty of an interview question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// QuestionCount is the fixed number of questions per interview:
// 2 easy (20s), 2 medium (60s), 2 hard (120s), in that order.
const QuestionCount = 6

// Question is a single interview question. Immutable once assigned.
type Question struct {
	Text             string     `json:"text"`
	Difficulty       Difficulty `json:"difficulty"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
}

// Answer records a submitted answer. Created exactly once per question and
// never mutated afterwards.
type Answer struct {
	Text        string    `json:"text"`
	Score       int       `json:"score"` // 1..10
	Feedback    string    `json:"feedback"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// InterviewQuestion pairs a question with its (optional) answer.
type InterviewQuestion struct {
	Question
	Answer *Answer `json:"answer,omitempty"`
}

// Evaluation is the per-answer scoring result.
type Evaluation struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Summary is the final evaluation derived once at interview completion.
// OverallScore is the oracle's (or fallback's) own number and is kept
// separate from Interview.FinalScore, which is always the rounded mean of
// the six answer scores.
type Summary struct {
	OverallScore   float64  `json:"overall_score"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	Recommendation string   `json:"recommendation"`
}

// Interview is a candidate's interview session.
type Interview struct {
	ID              uuid.UUID           `json:"id"`
	CandidateID     uuid.UUID           `json:"candidate_id"`
	StartedAt       time.Time           `json:"started_at"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	CurrentQuestion int                 `json:"current_question"`
	FinalScore      *int                `json:"final_score,omitempty"`
	Questions       []InterviewQuestion `json:"questions"`
	Summary         *Summary            `json:"summary,omitempty"`
}

// State reports the interview's own state (in-progress or completed).
func (i *Interview) State() InterviewState {
	if i.CompletedAt != nil {
		return StateCompleted
	}
	return StateInProgress
}

// Completed reports whether the interview is terminal.
func (i *Interview) Completed() bool {
	return i.CompletedAt != nil
}

// SubmitAnswerRequest is the payload for submitting an answer.
type SubmitAnswerRequest struct {
	InterviewIndex int    `json:"interview_index" binding:"min=0"`
	QuestionIndex  int    `json:"question_index" binding:"min=0"`
	Answer         string `json:"answer"` // empty answers are accepted and scored
}

// QuestionView is a question as presented to the interview client.
type QuestionView struct {
	Index            int        `json:"index"`
	Text             string     `json:"text"`
	Difficulty       Difficulty `json:"difficulty"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
}
