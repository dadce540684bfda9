package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/intervue/intervue-backend/internal/model"
	"github.com/intervue/intervue-backend/internal/oracle"
	ws "github.com/intervue/intervue-backend/internal/websocket"
	"github.com/intervue/intervue-backend/internal/worker"
)

// Interview flow errors.
var (
	ErrNoInterview      = errors.New("no interview session for candidate")
	ErrAlreadyCompleted = errors.New("interview already completed")
	ErrQuestionOrder    = errors.New("answer does not target the current question")
)

// maxResumeChars bounds how much resume text goes into the question
// generation prompt.
const maxResumeChars = 2000

// InterviewStore is the persistence surface the interview flow needs.
// Implemented by repository.InterviewRepository.
type InterviewStore interface {
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.Interview, error)
	Create(ctx context.Context, iv *model.Interview) error
	RecordAnswer(ctx context.Context, iv *model.Interview, expectedQuestion int) error
	Complete(ctx context.Context, iv *model.Interview, expectedQuestion int) error
	DeleteLatest(ctx context.Context, candidateID uuid.UUID) error
}

// CandidateStore is the candidate surface the interview flow needs.
// Implemented by repository.CandidateRepository.
type CandidateStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Candidate, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.CandidateStatus) error
}

// QuestionOracle generates, scores, and summarizes. Implemented by
// oracle.Adapter; methods never fail, they fall back internally.
type QuestionOracle interface {
	GenerateQuestions(ctx context.Context, resumeText string) []model.Question
	ScoreAnswer(ctx context.Context, questionText, answerText string) model.Evaluation
	Summarize(ctx context.Context, results []oracle.RoundResult) model.Summary
}

// StartResult is returned by StartOrResume.
type StartResult struct {
	InterviewIndex int                  `json:"interview_index"`
	Resumed        bool                 `json:"resumed"`
	State          model.InterviewState `json:"state"`
	Question       *model.QuestionView  `json:"question,omitempty"`
	AnsweredCount  int                  `json:"answered_count"`
	TotalQuestions int                  `json:"total_questions"`
}

// SubmitResult is returned by SubmitAnswer.
type SubmitResult struct {
	Score        int                 `json:"score"`
	Feedback     string              `json:"feedback"`
	Completed    bool                `json:"completed"`
	NextQuestion *model.QuestionView `json:"next_question,omitempty"`
	FinalScore   *int                `json:"final_score,omitempty"`
	Summary      *model.Summary      `json:"summary,omitempty"`
}

// InterviewStatus is the full view of one interview session.
type InterviewStatus struct {
	State           model.InterviewState      `json:"state"`
	InterviewIndex  int                       `json:"interview_index"`
	CurrentQuestion *model.QuestionView       `json:"current_question,omitempty"`
	AnsweredCount   int                       `json:"answered_count"`
	TotalQuestions  int                       `json:"total_questions"`
	FinalScore      *int                      `json:"final_score,omitempty"`
	Summary         *model.Summary            `json:"summary,omitempty"`
	Questions       []model.InterviewQuestion `json:"questions,omitempty"`
}

// InterviewService drives the interview session state machine. All
// transitions dispatch on the state derived from the candidate's interview
// list; the latest interview is the only mutable one.
type InterviewService struct {
	interviews InterviewStore
	candidates CandidateStore
	oracle     QuestionOracle
	bus        EventBus
}

// NewInterviewService creates a new InterviewService.
func NewInterviewService(interviews InterviewStore, candidates CandidateStore, questionOracle QuestionOracle, bus EventBus) *InterviewService {
	return &InterviewService{
		interviews: interviews,
		candidates: candidates,
		oracle:     questionOracle,
		bus:        bus,
	}
}

// StartOrResume starts a candidate's interview or resumes the one in
// progress. Idempotent: repeated calls while in progress return the same
// current question and mutate nothing. A completed interview cannot be
// restarted here; that path goes through AuthorizeRetake.
func (s *InterviewService) StartOrResume(ctx context.Context, candidateID uuid.UUID) (*StartResult, error) {
	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("get candidate: %w", err)
	}

	interviews, err := s.interviews.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}

	if len(interviews) > 0 {
		latest := &interviews[len(interviews)-1]
		if latest.Completed() {
			return nil, ErrAlreadyCompleted
		}
		return &StartResult{
			InterviewIndex: len(interviews) - 1,
			Resumed:        true,
			State:          model.StateInProgress,
			Question:       questionView(latest, latest.CurrentQuestion),
			AnsweredCount:  latest.CurrentQuestion,
			TotalQuestions: model.QuestionCount,
		}, nil
	}

	questions := s.oracle.GenerateQuestions(ctx, truncateResume(candidate.ResumeText))
	iv := &model.Interview{
		CandidateID: candidateID,
		Questions:   make([]model.InterviewQuestion, 0, len(questions)),
	}
	for _, q := range questions {
		iv.Questions = append(iv.Questions, model.InterviewQuestion{Question: q})
	}

	if err := s.interviews.Create(ctx, iv); err != nil {
		return nil, fmt.Errorf("create interview: %w", err)
	}
	if err := s.candidates.SetStatus(ctx, candidateID, model.CandidateStatusInterviewed); err != nil {
		return nil, fmt.Errorf("set candidate status: %w", err)
	}

	s.notify(ctx, candidateID, iv, nil, "interview_started")

	return &StartResult{
		InterviewIndex: 0,
		State:          model.StateInProgress,
		Question:       questionView(iv, 0),
		AnsweredCount:  0,
		TotalQuestions: model.QuestionCount,
	}, nil
}

// SubmitAnswer records and scores an answer to the current question. The
// answer may be empty (a timed-out candidate submits whatever they have);
// it is scored like any other. Answering the final question completes the
// interview: final score, summary, and candidate status flip in one guarded
// update.
func (s *InterviewService) SubmitAnswer(ctx context.Context, candidateID uuid.UUID, req model.SubmitAnswerRequest) (*SubmitResult, error) {
	interviews, err := s.interviews.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	if len(interviews) == 0 {
		return nil, ErrNoInterview
	}
	if req.InterviewIndex < 0 || req.InterviewIndex >= len(interviews) {
		return nil, ErrNoInterview
	}

	iv := &interviews[req.InterviewIndex]
	if iv.Completed() {
		return nil, ErrAlreadyCompleted
	}
	// Only the latest interview is mutable.
	if req.InterviewIndex != len(interviews)-1 {
		return nil, ErrQuestionOrder
	}
	if req.QuestionIndex != iv.CurrentQuestion || req.QuestionIndex >= len(iv.Questions) {
		return nil, ErrQuestionOrder
	}

	eval := s.oracle.ScoreAnswer(ctx, iv.Questions[req.QuestionIndex].Text, req.Answer)
	iv.Questions[req.QuestionIndex].Answer = &model.Answer{
		Text:        req.Answer,
		Score:       eval.Score,
		Feedback:    eval.Feedback,
		SubmittedAt: time.Now(),
	}
	iv.CurrentQuestion = req.QuestionIndex + 1

	result := &SubmitResult{Score: eval.Score, Feedback: eval.Feedback}

	if iv.CurrentQuestion == len(iv.Questions) {
		final := finalScore(iv)
		summary := s.oracle.Summarize(ctx, roundResults(iv))
		iv.FinalScore = &final
		iv.Summary = &summary

		if err := s.interviews.Complete(ctx, iv, req.QuestionIndex); err != nil {
			return nil, err
		}
		if err := s.candidates.SetStatus(ctx, candidateID, model.CandidateStatusCompleted); err != nil {
			return nil, fmt.Errorf("set candidate status: %w", err)
		}

		result.Completed = true
		result.FinalScore = &final
		result.Summary = &summary
		s.notify(ctx, candidateID, iv, &eval.Score, "interview_completed")
		return result, nil
	}

	if err := s.interviews.RecordAnswer(ctx, iv, req.QuestionIndex); err != nil {
		return nil, err
	}

	result.NextQuestion = questionView(iv, iv.CurrentQuestion)
	s.notify(ctx, candidateID, iv, &eval.Score, "answer_submitted")
	return result, nil
}

// Status reports the full view of the interview at the given index. State
// is derived from the interview list: asking for index 0 of a candidate
// with no interviews yields NOT_STARTED rather than an error.
func (s *InterviewService) Status(ctx context.Context, candidateID uuid.UUID, interviewIndex int) (*InterviewStatus, error) {
	if _, err := s.candidates.GetByID(ctx, candidateID); err != nil {
		return nil, fmt.Errorf("get candidate: %w", err)
	}

	interviews, err := s.interviews.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}

	if len(interviews) == 0 && interviewIndex == 0 {
		return &InterviewStatus{
			State:          model.StateNotStarted,
			TotalQuestions: model.QuestionCount,
		}, nil
	}
	if interviewIndex < 0 || interviewIndex >= len(interviews) {
		return nil, ErrNoInterview
	}

	iv := &interviews[interviewIndex]
	status := &InterviewStatus{
		State:          iv.State(),
		InterviewIndex: interviewIndex,
		AnsweredCount:  iv.CurrentQuestion,
		TotalQuestions: len(iv.Questions),
		FinalScore:     iv.FinalScore,
		Summary:        iv.Summary,
		Questions:      iv.Questions,
	}
	if !iv.Completed() {
		status.CurrentQuestion = questionView(iv, iv.CurrentQuestion)
	}
	return status, nil
}

// AuthorizeRetake deletes the candidate's latest interview so a following
// start generates fresh questions. Operator-gated at the router. Lenient: a
// candidate with nothing to reset is a no-op, not an error.
func (s *InterviewService) AuthorizeRetake(ctx context.Context, candidateID uuid.UUID) error {
	if _, err := s.candidates.GetByID(ctx, candidateID); err != nil {
		return fmt.Errorf("get candidate: %w", err)
	}

	if err := s.interviews.DeleteLatest(ctx, candidateID); err != nil {
		return fmt.Errorf("delete interview: %w", err)
	}
	if err := s.candidates.SetStatus(ctx, candidateID, model.CandidateStatusApplied); err != nil {
		return fmt.Errorf("set candidate status: %w", err)
	}
	s.bus.ClearProgress(ctx, candidateID.String())
	s.bus.EnqueueEvent(ctx, worker.EventPayload{
		CandidateID: candidateID.String(),
		EventType:   "retake_authorized",
		Payload:     "{}",
	})
	s.bus.PublishProgress(ctx, candidateID.String(), ws.ProgressEvent{
		Event:       ws.EventProgress,
		CandidateID: candidateID.String(),
		State:       string(model.StateNotStarted),
	})
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────

func (s *InterviewService) notify(ctx context.Context, candidateID uuid.UUID, iv *model.Interview, lastScore *int, eventType string) {
	event := ws.ProgressEvent{
		Event:           ws.EventProgress,
		CandidateID:     candidateID.String(),
		State:           string(iv.State()),
		CurrentQuestion: iv.CurrentQuestion,
		LastScore:       lastScore,
	}
	if iv.Summary != nil {
		event.FinalScore = &iv.Summary.OverallScore
	}
	s.bus.PublishProgress(ctx, candidateID.String(), event)
	s.bus.CacheProgress(ctx, candidateID.String(), event)
	s.bus.EnqueueEvent(ctx, worker.EventPayload{
		CandidateID: candidateID.String(),
		InterviewID: iv.ID.String(),
		EventType:   eventType,
		Payload:     fmt.Sprintf(`{"current_question":%d}`, iv.CurrentQuestion),
	})
}

func questionView(iv *model.Interview, index int) *model.QuestionView {
	if index < 0 || index >= len(iv.Questions) {
		return nil
	}
	q := iv.Questions[index]
	return &model.QuestionView{
		Index:            index,
		Text:             q.Text,
		Difficulty:       q.Difficulty,
		TimeLimitSeconds: q.TimeLimitSeconds,
	}
}

// finalScore is the rounded mean of the answer scores. Kept separate from
// Summary.OverallScore, which is the oracle's own number.
func finalScore(iv *model.Interview) int {
	total := 0
	count := 0
	for _, q := range iv.Questions {
		if q.Answer != nil {
			total += q.Answer.Score
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(count)))
}

func roundResults(iv *model.Interview) []oracle.RoundResult {
	results := make([]oracle.RoundResult, 0, len(iv.Questions))
	for _, q := range iv.Questions {
		if q.Answer == nil {
			continue
		}
		results = append(results, oracle.RoundResult{
			Question: q.Text,
			Answer:   q.Answer.Text,
			Score:    q.Answer.Score,
			Feedback: q.Answer.Feedback,
		})
	}
	return results
}

func truncateResume(text string) string {
	if len(text) > maxResumeChars {
		return text[:maxResumeChars]
	}
	return text
}
