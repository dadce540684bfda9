package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/intervue/intervue-backend/internal/decode"
	"github.com/intervue/intervue-backend/internal/model"
	"github.com/intervue/intervue-backend/internal/response"
	"github.com/intervue/intervue-backend/internal/service"
	"github.com/intervue/intervue-backend/internal/validator"
	"github.com/jackc/pgx/v5"
)

// CandidateHandler handles candidate pipeline endpoints.
type CandidateHandler struct {
	candidateService *service.CandidateService
}

// NewCandidateHandler creates a new CandidateHandler.
func NewCandidateHandler(candidateService *service.CandidateService) *CandidateHandler {
	return &CandidateHandler{candidateService: candidateService}
}

// ParseResume godoc
// POST /api/v1/candidates/parse-resume
// Stores an uploaded resume, decodes it to text, and returns the extracted
// identity fields so the client can prefill its registration form.
func (h *CandidateHandler) ParseResume(c *gin.Context) {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	defer file.Close()

	url, text, identity, err := h.candidateService.ParseResume(file, fileHeader)
	if err != nil {
		failUpload(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"resume_url":  url,
		"resume_text": text,
		"extracted":   identity,
	})
}

// Register godoc
// POST /api/v1/candidates
// Registers a candidate from JSON or multipart form. Identity fields the
// request leaves blank are filled from resume extraction; registration is
// rejected with the list of fields still missing after the merge.
func (h *CandidateHandler) Register(c *gin.Context) {
	var req model.RegisterCandidateRequest

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req = model.RegisterCandidateRequest{
			Name:       c.PostForm("name"),
			Email:      c.PostForm("email"),
			Phone:      c.PostForm("phone"),
			ResumeText: c.PostForm("resume_text"),
			ResumeURL:  c.PostForm("resume_url"),
		}
	} else if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	candidate, err := h.candidateService.Register(c.Request.Context(), req)
	if err != nil {
		var missing *service.MissingFieldsError
		if errors.As(err, &missing) {
			fields := make(map[string]string, len(missing.Fields))
			for _, f := range missing.Fields {
				fields[f] = "could not be extracted from the resume; please provide it"
			}
			response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrMissingFields, fields)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"candidate": candidate})
}

// List godoc
// GET /api/v1/candidates?page=&per_page=&status=
func (h *CandidateHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var status *model.CandidateStatus
	if raw := c.Query("status"); raw != "" {
		s := model.CandidateStatus(raw)
		status = &s
	}

	candidates, total, err := h.candidateService.List(c.Request.Context(), status, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	totalPages := (total + perPage - 1) / perPage
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"candidates": candidates}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// Get godoc
// GET /api/v1/candidates/:id
func (h *CandidateHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	candidate, err := h.candidateService.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"candidate": candidate})
}

// UpdateIdentity godoc
// PUT /api/v1/candidates/:id/identity
// Operator correction of candidate identity fields.
func (h *CandidateHandler) UpdateIdentity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateIdentityRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	candidate, err := h.candidateService.UpdateIdentity(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"candidate": candidate})
}

// Dashboard godoc
// GET /api/v1/dashboard
// Pipeline counts and average completed-interview score.
func (h *CandidateHandler) Dashboard(c *gin.Context) {
	stats, err := h.candidateService.DashboardStats(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

func failUpload(c *gin.Context, err error) {
	switch {
	case errors.Is(err, decode.ErrUnsupportedFileType):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
	case errors.Is(err, decode.ErrFileTooLarge):
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
