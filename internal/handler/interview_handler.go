package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/intervue/intervue-backend/internal/model"
	"github.com/intervue/intervue-backend/internal/repository"
	"github.com/intervue/intervue-backend/internal/response"
	"github.com/intervue/intervue-backend/internal/service"
	"github.com/intervue/intervue-backend/internal/validator"
	"github.com/jackc/pgx/v5"
)

// InterviewHandler handles interview session endpoints.
type InterviewHandler struct {
	interviewService *service.InterviewService
}

// NewInterviewHandler creates a new InterviewHandler.
func NewInterviewHandler(interviewService *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewService: interviewService}
}

// Start godoc
// POST /api/v1/candidates/:id/interview/start
// Starts the candidate's interview or resumes the one in progress.
func (h *InterviewHandler) Start(c *gin.Context) {
	candidateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.interviewService.StartOrResume(c.Request.Context(), candidateID)
	if err != nil {
		h.fail(c, err)
		return
	}

	status := http.StatusCreated
	if result.Resumed {
		status = http.StatusOK
	}
	response.Success(c, status, result)
}

// Answer godoc
// POST /api/v1/candidates/:id/interview/answer
// Submits and scores an answer to the current question.
func (h *InterviewHandler) Answer(c *gin.Context) {
	candidateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.interviewService.SubmitAnswer(c.Request.Context(), candidateID, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Status godoc
// GET /api/v1/candidates/:id/interview/:index
// Full view of the interview at the given index.
func (h *InterviewHandler) Status(c *gin.Context) {
	candidateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	status, err := h.interviewService.Status(c.Request.Context(), candidateID, index)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, status)
}

// Retake godoc
// POST /api/v1/candidates/:id/interview/retake
// Deletes the latest interview so the candidate can start fresh.
func (h *InterviewHandler) Retake(c *gin.Context) {
	candidateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.interviewService.AuthorizeRetake(c.Request.Context(), candidateID); err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "reset"})
}

func (h *InterviewHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNoInterview):
		response.Fail(c, http.StatusNotFound, response.ErrNoInterview)
	case errors.Is(err, service.ErrAlreadyCompleted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyCompleted)
	case errors.Is(err, service.ErrQuestionOrder):
		response.Fail(c, http.StatusConflict, response.ErrQuestionOrder)
	case errors.Is(err, repository.ErrStaleInterview):
		response.Fail(c, http.StatusConflict, response.ErrStaleSubmission)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
