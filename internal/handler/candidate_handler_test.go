package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/intervue/intervue-backend/internal/model"
	"github.com/intervue/intervue-backend/internal/response"
	"github.com/intervue/intervue-backend/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// notFoundCandidateRepo answers every lookup the way the pgx repository does
// for an unknown candidate.
type notFoundCandidateRepo struct{}

func (notFoundCandidateRepo) GetByID(context.Context, uuid.UUID) (*model.Candidate, error) {
	return nil, pgx.ErrNoRows
}

func (notFoundCandidateRepo) Create(context.Context, *model.Candidate) error { return nil }

func (notFoundCandidateRepo) UpdateIdentity(_ context.Context, id uuid.UUID, _, _, _ string) error {
	return fmt.Errorf("update candidate %s: %w", id, pgx.ErrNoRows)
}

func (notFoundCandidateRepo) ListPaginated(context.Context, *model.CandidateStatus, int, int) ([]model.Candidate, int, error) {
	return nil, 0, nil
}

func (notFoundCandidateRepo) DashboardStats(context.Context) (*model.DashboardStats, error) {
	return &model.DashboardStats{}, nil
}

func TestUpdateIdentityUnknownCandidateMapsToNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewCandidateHandler(service.NewCandidateService(notFoundCandidateRepo{}, nil))
	r := gin.New()
	r.PUT("/api/v1/candidates/:id/identity", h.UpdateIdentity)

	body := `{"name":"Jane Doe","email":"jane@example.com","phone":"555-123-4567"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/candidates/"+uuid.NewString()+"/identity", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var envelope response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, response.ErrNotFound, envelope.Error.Code)
}

func TestUpdateIdentityInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewCandidateHandler(service.NewCandidateService(notFoundCandidateRepo{}, nil))
	r := gin.New()
	r.PUT("/api/v1/candidates/:id/identity", h.UpdateIdentity)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/candidates/not-a-uuid/identity", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
