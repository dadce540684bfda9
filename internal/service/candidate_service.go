package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/intervue/intervue-backend/internal/decode"
	"github.com/intervue/intervue-backend/internal/model"
	"github.com/intervue/intervue-backend/internal/resume"
)

// MissingFieldsError reports identity fields that neither extraction nor
// the user supplied. The extracted values ride along so the client can
// prefill its correction form.
type MissingFieldsError struct {
	Fields    []string
	Extracted model.ExtractedIdentity
}

func (e *MissingFieldsError) Error() string {
	return "missing identity fields: " + strings.Join(e.Fields, ", ")
}

// maxStoredResumeChars caps how much resume text is persisted with the
// candidate. Extraction runs on the full text first; only storage is
// truncated.
const maxStoredResumeChars = 2000

// CandidateRepo is the persistence surface the candidate flow needs.
// Implemented by repository.CandidateRepository.
type CandidateRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Candidate, error)
	Create(ctx context.Context, c *model.Candidate) error
	UpdateIdentity(ctx context.Context, id uuid.UUID, name, email, phone string) error
	ListPaginated(ctx context.Context, status *model.CandidateStatus, limit, offset int) ([]model.Candidate, int, error)
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
}

// CandidateService handles candidate registration and pipeline queries.
type CandidateService struct {
	candidateRepo CandidateRepo
	store         *decode.ResumeStore
}

// NewCandidateService creates a new CandidateService.
func NewCandidateService(candidateRepo CandidateRepo, store *decode.ResumeStore) *CandidateService {
	return &CandidateService{candidateRepo: candidateRepo, store: store}
}

// ParseResume stores an uploaded resume file and extracts identity fields
// from its text. Extraction is best-effort; missing fields come back empty.
func (s *CandidateService) ParseResume(file multipart.File, header *multipart.FileHeader) (url, text string, identity model.ExtractedIdentity, err error) {
	url, text, err = s.store.SaveAndDecode(file, header)
	if err != nil {
		return "", "", model.ExtractedIdentity{}, err
	}
	return url, text, resume.Extract(text), nil
}

// ExtractIdentity runs the extraction heuristics over plain resume text.
func (s *CandidateService) ExtractIdentity(text string) model.ExtractedIdentity {
	return resume.Extract(text)
}

// Register creates a candidate from a registration request. Identity fields
// are merged per field: the user-supplied value wins when present, the
// extracted value fills the gap otherwise. Registration is rejected with
// MissingFieldsError while any field remains empty.
func (s *CandidateService) Register(ctx context.Context, req model.RegisterCandidateRequest) (*model.Candidate, error) {
	extracted := resume.Extract(req.ResumeText)

	merged := model.ExtractedIdentity{
		Name:  firstNonEmpty(req.Name, extracted.Name),
		Email: firstNonEmpty(req.Email, extracted.Email),
		Phone: firstNonEmpty(req.Phone, extracted.Phone),
	}

	var missing []string
	if merged.Name == "" {
		missing = append(missing, "name")
	}
	if merged.Email == "" {
		missing = append(missing, "email")
	}
	if merged.Phone == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing, Extracted: extracted}
	}

	resumeText := req.ResumeText
	if len(resumeText) > maxStoredResumeChars {
		resumeText = resumeText[:maxStoredResumeChars]
	}

	candidate := &model.Candidate{
		Name:       merged.Name,
		Email:      merged.Email,
		Phone:      merged.Phone,
		ResumeURL:  req.ResumeURL,
		ResumeText: resumeText,
		Status:     model.CandidateStatusApplied,
	}
	if err := s.candidateRepo.Create(ctx, candidate); err != nil {
		return nil, fmt.Errorf("create candidate: %w", err)
	}
	return candidate, nil
}

// UpdateIdentity applies an operator correction to a candidate's identity
// fields. All three fields are required; partial corrections go through the
// client as a full set.
func (s *CandidateService) UpdateIdentity(ctx context.Context, id uuid.UUID, req model.UpdateIdentityRequest) (*model.Candidate, error) {
	if err := s.candidateRepo.UpdateIdentity(ctx, id, req.Name, req.Email, req.Phone); err != nil {
		return nil, err
	}
	return s.candidateRepo.GetByID(ctx, id)
}

// Get retrieves a candidate by ID.
func (s *CandidateService) Get(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	return s.candidateRepo.GetByID(ctx, id)
}

// List retrieves candidates with pagination and an optional status filter.
func (s *CandidateService) List(ctx context.Context, status *model.CandidateStatus, page, perPage int) ([]model.Candidate, int, error) {
	offset := (page - 1) * perPage
	return s.candidateRepo.ListPaginated(ctx, status, perPage, offset)
}

// DashboardStats aggregates candidate pipeline counts.
func (s *CandidateService) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	return s.candidateRepo.DashboardStats(ctx)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
