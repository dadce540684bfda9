package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/intervue/intervue-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CandidateRepository handles candidate data access.
type CandidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository creates a new CandidateRepository.
func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

// GetByID retrieves a candidate by ID.
func (r *CandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	c := &model.Candidate{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, phone, resume_url, resume_text, status, created_at, updated_at
		 FROM candidates WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.ResumeURL, &c.ResumeText, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListPaginated retrieves candidates with pagination and optional status
// filter, ordered by most recently updated first.
func (r *CandidateRepository) ListPaginated(ctx context.Context, status *model.CandidateStatus, limit, offset int) ([]model.Candidate, int, error) {
	countQuery := `SELECT COUNT(*) FROM candidates`
	var countArgs []interface{}
	if status != nil {
		countQuery += ` WHERE status = $1`
		countArgs = append(countArgs, *status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, name, email, phone, resume_url, resume_text, status, created_at, updated_at FROM candidates`
	var args []interface{}
	argIdx := 1

	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
		argIdx++
	}

	query += ` ORDER BY updated_at DESC LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var candidates []model.Candidate
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.ResumeURL, &c.ResumeText, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		candidates = append(candidates, c)
	}
	return candidates, total, rows.Err()
}

// Create inserts a new candidate.
func (r *CandidateRepository) Create(ctx context.Context, c *model.Candidate) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO candidates (name, email, phone, resume_url, resume_text, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.Email, c.Phone, c.ResumeURL, c.ResumeText, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// UpdateIdentity modifies a candidate's identity fields.
func (r *CandidateRepository) UpdateIdentity(ctx context.Context, id uuid.UUID, name, email, phone string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE candidates SET name = $1, email = $2, phone = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4`,
		name, email, phone, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Wrapped so callers can route not-found with errors.Is.
		return fmt.Errorf("update candidate %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}

// SetStatus transitions a candidate's pipeline status.
func (r *CandidateRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.CandidateStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE candidates SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		status, id,
	)
	return err
}

// DashboardStats aggregates pipeline counts and the average final score of
// completed interviews.
func (r *CandidateRepository) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}
	err := r.pool.QueryRow(ctx,
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'applied'),
			COUNT(*) FILTER (WHERE status = 'interviewed'),
			COUNT(*) FILTER (WHERE status = 'completed')
		 FROM candidates`,
	).Scan(&stats.TotalCandidates, &stats.Applied, &stats.Interviewed, &stats.Completed)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx,
		`SELECT AVG(final_score) FROM interviews WHERE completed_at IS NOT NULL`,
	).Scan(&stats.AverageScore)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
