package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/intervue/intervue-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStaleInterview signals that a guarded update lost the race: the
// interview's current question moved between read and write. The caller
// re-reads and re-dispatches instead of retrying blindly.
var ErrStaleInterview = errors.New("interview progressed concurrently")

// InterviewRepository handles interview session data access. Questions and
// summary live in jsonb columns; progression fields are relational so the
// optimistic guard can compare them in SQL.
type InterviewRepository struct {
	pool *pgxpool.Pool
}

// NewInterviewRepository creates a new InterviewRepository.
func NewInterviewRepository(pool *pgxpool.Pool) *InterviewRepository {
	return &InterviewRepository{pool: pool}
}

// ListByCandidate retrieves all interviews for a candidate, oldest first.
// The ordering is load-bearing: interview indexes in the API are positions
// in this list.
func (r *InterviewRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.Interview, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, candidate_id, started_at, completed_at, current_question, final_score, questions, summary
		 FROM interviews
		 WHERE candidate_id = $1
		 ORDER BY started_at ASC, id ASC`, candidateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interviews []model.Interview
	for rows.Next() {
		var iv model.Interview
		if err := rows.Scan(&iv.ID, &iv.CandidateID, &iv.StartedAt, &iv.CompletedAt,
			&iv.CurrentQuestion, &iv.FinalScore, &iv.Questions, &iv.Summary); err != nil {
			return nil, err
		}
		interviews = append(interviews, iv)
	}
	return interviews, rows.Err()
}

// Create inserts a new interview with its full question set.
func (r *InterviewRepository) Create(ctx context.Context, iv *model.Interview) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO interviews (candidate_id, current_question, questions)
		 VALUES ($1, $2, $3)
		 RETURNING id, started_at`,
		iv.CandidateID, iv.CurrentQuestion, iv.Questions,
	).Scan(&iv.ID, &iv.StartedAt)
}

// RecordAnswer persists a scored answer and advances the current question
// pointer. The WHERE clause on current_question is the optimistic guard: a
// concurrent submission that already advanced the pointer makes this update
// match zero rows, and the caller gets ErrStaleInterview.
func (r *InterviewRepository) RecordAnswer(ctx context.Context, iv *model.Interview, expectedQuestion int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE interviews
		 SET questions = $1, current_question = $2
		 WHERE id = $3 AND current_question = $4 AND completed_at IS NULL`,
		iv.Questions, iv.CurrentQuestion, iv.ID, expectedQuestion,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleInterview
	}
	return nil
}

// Complete marks an interview finished with its final score and summary.
// Guarded the same way as RecordAnswer so completion happens exactly once.
func (r *InterviewRepository) Complete(ctx context.Context, iv *model.Interview, expectedQuestion int) error {
	now := time.Now()
	tag, err := r.pool.Exec(ctx,
		`UPDATE interviews
		 SET questions = $1, current_question = $2, completed_at = $3, final_score = $4, summary = $5
		 WHERE id = $6 AND current_question = $7 AND completed_at IS NULL`,
		iv.Questions, iv.CurrentQuestion, now, iv.FinalScore, iv.Summary, iv.ID, expectedQuestion,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleInterview
	}
	iv.CompletedAt = &now
	return nil
}

// DeleteLatest removes a candidate's most recent interview. Used by the
// operator-gated retake flow; earlier interviews stay as history.
func (r *InterviewRepository) DeleteLatest(ctx context.Context, candidateID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM interviews
		 WHERE id = (
			SELECT id FROM interviews
			WHERE candidate_id = $1
			ORDER BY started_at DESC, id DESC
			LIMIT 1
		 )`, candidateID)
	return err
}
