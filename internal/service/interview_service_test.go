package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/intervue/intervue-backend/internal/model"
	"github.com/intervue/intervue-backend/internal/oracle"
	"github.com/intervue/intervue-backend/internal/repository"
	ws "github.com/intervue/intervue-backend/internal/websocket"
	"github.com/intervue/intervue-backend/internal/worker"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Fakes ──────────────────────────────────────────────────────────

// fakeInterviewStore mimics the repository's guarded updates: rows are
// copied on read, and RecordAnswer/Complete only apply when the stored row
// still sits at the expected question.
type fakeInterviewStore struct {
	byCandidate map[uuid.UUID][]model.Interview
	staleNext   bool
}

func newFakeInterviewStore() *fakeInterviewStore {
	return &fakeInterviewStore{byCandidate: make(map[uuid.UUID][]model.Interview)}
}

func (f *fakeInterviewStore) ListByCandidate(_ context.Context, candidateID uuid.UUID) ([]model.Interview, error) {
	stored := f.byCandidate[candidateID]
	out := make([]model.Interview, len(stored))
	for i, iv := range stored {
		out[i] = iv
		out[i].Questions = append([]model.InterviewQuestion(nil), iv.Questions...)
	}
	return out, nil
}

func (f *fakeInterviewStore) Create(_ context.Context, iv *model.Interview) error {
	iv.ID = uuid.New()
	iv.StartedAt = time.Now()
	f.byCandidate[iv.CandidateID] = append(f.byCandidate[iv.CandidateID], *iv)
	return nil
}

func (f *fakeInterviewStore) RecordAnswer(_ context.Context, iv *model.Interview, expectedQuestion int) error {
	return f.apply(iv, expectedQuestion, false)
}

func (f *fakeInterviewStore) Complete(_ context.Context, iv *model.Interview, expectedQuestion int) error {
	return f.apply(iv, expectedQuestion, true)
}

func (f *fakeInterviewStore) apply(iv *model.Interview, expectedQuestion int, complete bool) error {
	if f.staleNext {
		f.staleNext = false
		return repository.ErrStaleInterview
	}
	stored := f.byCandidate[iv.CandidateID]
	for i := range stored {
		if stored[i].ID != iv.ID {
			continue
		}
		if stored[i].CurrentQuestion != expectedQuestion || stored[i].CompletedAt != nil {
			return repository.ErrStaleInterview
		}
		stored[i] = *iv
		stored[i].Questions = append([]model.InterviewQuestion(nil), iv.Questions...)
		if complete {
			now := time.Now()
			stored[i].CompletedAt = &now
		}
		return nil
	}
	return repository.ErrStaleInterview
}

func (f *fakeInterviewStore) DeleteLatest(_ context.Context, candidateID uuid.UUID) error {
	stored := f.byCandidate[candidateID]
	if len(stored) > 0 {
		f.byCandidate[candidateID] = stored[:len(stored)-1]
	}
	return nil
}

type fakeCandidateStore struct {
	candidates map[uuid.UUID]*model.Candidate
}

func newFakeCandidateStore(c *model.Candidate) *fakeCandidateStore {
	return &fakeCandidateStore{candidates: map[uuid.UUID]*model.Candidate{c.ID: c}}
}

func (f *fakeCandidateStore) GetByID(_ context.Context, id uuid.UUID) (*model.Candidate, error) {
	c, ok := f.candidates[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeCandidateStore) SetStatus(_ context.Context, id uuid.UUID, status model.CandidateStatus) error {
	c, ok := f.candidates[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.Status = status
	return nil
}

type fakeBus struct {
	published []ws.ProgressEvent
	cached    []ws.ProgressEvent
	enqueued  []worker.EventPayload
	cleared   []string
}

func (f *fakeBus) PublishProgress(_ context.Context, _ string, event ws.ProgressEvent) {
	f.published = append(f.published, event)
}

func (f *fakeBus) EnqueueEvent(_ context.Context, payload worker.EventPayload) {
	f.enqueued = append(f.enqueued, payload)
}

func (f *fakeBus) CacheProgress(_ context.Context, _ string, event ws.ProgressEvent) {
	f.cached = append(f.cached, event)
}

func (f *fakeBus) ClearProgress(_ context.Context, candidateID string) {
	f.cleared = append(f.cleared, candidateID)
}

type fixture struct {
	svc        *InterviewService
	interviews *fakeInterviewStore
	candidates *fakeCandidateStore
	bus        *fakeBus
	candidate  *model.Candidate
}

// newFixture wires the service to in-memory stores and a disabled oracle
// adapter, which scores deterministically via the keyword heuristic.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	candidate := &model.Candidate{
		ID:         uuid.New(),
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Phone:      "555-123-4567",
		ResumeText: "Full stack developer with React and Node.js experience.",
		Status:     model.CandidateStatusApplied,
	}
	interviews := newFakeInterviewStore()
	candidates := newFakeCandidateStore(candidate)
	bus := &fakeBus{}
	svc := NewInterviewService(interviews, candidates, oracle.NewAdapter(nil, false, zerolog.Nop()), bus)
	return &fixture{svc: svc, interviews: interviews, candidates: candidates, bus: bus, candidate: candidate}
}

// ─── Tests ──────────────────────────────────────────────────────────

func TestStartOrResume(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh start creates one interview", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.svc.StartOrResume(ctx, f.candidate.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, res.InterviewIndex)
		assert.False(t, res.Resumed)
		assert.Equal(t, model.StateInProgress, res.State)
		assert.Equal(t, model.QuestionCount, res.TotalQuestions)
		assert.Equal(t, 0, res.AnsweredCount)
		require.NotNil(t, res.Question)
		assert.Equal(t, 0, res.Question.Index)
		assert.Equal(t, model.DifficultyEasy, res.Question.Difficulty)
		assert.Equal(t, 20, res.Question.TimeLimitSeconds)

		assert.Equal(t, model.CandidateStatusInterviewed, f.candidate.Status)
		require.Len(t, f.interviews.byCandidate[f.candidate.ID], 1)
		require.Len(t, f.bus.enqueued, 1)
		assert.Equal(t, "interview_started", f.bus.enqueued[0].EventType)
		assert.Len(t, f.bus.published, 1)
		assert.Len(t, f.bus.cached, 1)
	})

	t.Run("second start resumes without mutating", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.svc.StartOrResume(ctx, f.candidate.ID)
		require.NoError(t, err)

		second, err := f.svc.StartOrResume(ctx, f.candidate.ID)
		require.NoError(t, err)
		assert.True(t, second.Resumed)
		assert.Equal(t, first.Question, second.Question)
		assert.Len(t, f.interviews.byCandidate[f.candidate.ID], 1)
		// Resume publishes nothing.
		assert.Len(t, f.bus.published, 1)
	})

	t.Run("unknown candidate", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.StartOrResume(ctx, uuid.New())
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})
}

func submit(t *testing.T, f *fixture, questionIndex int, answer string) *SubmitResult {
	t.Helper()
	res, err := f.svc.SubmitAnswer(context.Background(), f.candidate.ID, model.SubmitAnswerRequest{
		InterviewIndex: 0,
		QuestionIndex:  questionIndex,
		Answer:         answer,
	})
	require.NoError(t, err)
	return res
}

func TestSubmitAnswerFullRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.StartOrResume(ctx, f.candidate.ID)
	require.NoError(t, err)

	status, err := f.svc.Status(ctx, f.candidate.ID, 0)
	require.NoError(t, err)
	questions := status.Questions
	require.Len(t, questions, model.QuestionCount)

	var scores []int
	for i := 0; i < model.QuestionCount; i++ {
		// Echo the question back so the heuristic rewards the answer.
		res := submit(t, f, i, questions[i].Text)
		assert.GreaterOrEqual(t, res.Score, 1)
		assert.LessOrEqual(t, res.Score, 10)
		scores = append(scores, res.Score)

		if i < model.QuestionCount-1 {
			assert.False(t, res.Completed)
			require.NotNil(t, res.NextQuestion)
			assert.Equal(t, i+1, res.NextQuestion.Index)
			continue
		}

		assert.True(t, res.Completed)
		assert.Nil(t, res.NextQuestion)
		require.NotNil(t, res.FinalScore)
		require.NotNil(t, res.Summary)

		total := 0
		for _, s := range scores {
			total += s
		}
		want := int(float64(total)/float64(len(scores)) + 0.5)
		assert.Equal(t, want, *res.FinalScore)
		assert.NotEmpty(t, res.Summary.Recommendation)
	}

	assert.Equal(t, model.CandidateStatusCompleted, f.candidate.Status)

	status, err = f.svc.Status(ctx, f.candidate.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, model.StateCompleted, status.State)
	assert.Nil(t, status.CurrentQuestion)
	assert.Equal(t, model.QuestionCount, status.AnsweredCount)
	require.NotNil(t, status.FinalScore)
	require.NotNil(t, status.Summary)
	for i, q := range status.Questions {
		require.NotNil(t, q.Answer, "question %d should carry its answer", i)
		assert.Equal(t, scores[i], q.Answer.Score)
	}
}

func TestSubmitAnswerGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("no interview", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SubmitAnswer(ctx, f.candidate.ID, model.SubmitAnswerRequest{})
		assert.ErrorIs(t, err, ErrNoInterview)
	})

	t.Run("interview index out of range", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.StartOrResume(ctx, f.candidate.ID)
		require.NoError(t, err)

		_, err = f.svc.SubmitAnswer(ctx, f.candidate.ID, model.SubmitAnswerRequest{InterviewIndex: 7})
		assert.ErrorIs(t, err, ErrNoInterview)

		_, err = f.svc.SubmitAnswer(ctx, f.candidate.ID, model.SubmitAnswerRequest{InterviewIndex: -1})
		assert.ErrorIs(t, err, ErrNoInterview)
	})

	t.Run("wrong question index", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.StartOrResume(ctx, f.candidate.ID)
		require.NoError(t, err)

		_, err = f.svc.SubmitAnswer(ctx, f.candidate.ID, model.SubmitAnswerRequest{QuestionIndex: 2})
		assert.ErrorIs(t, err, ErrQuestionOrder)

		_, err = f.svc.SubmitAnswer(ctx, f.candidate.ID, model.SubmitAnswerRequest{QuestionIndex: -1})
		assert.ErrorIs(t, err, ErrQuestionOrder)
	})

	t.Run("completed interview rejects further answers", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.StartOrResume(ctx, f.candidate.ID)
		require.NoError(t, err)
		for i := 0; i < model.QuestionCount; i++ {
			submit(t, f, i, "answer")
		}

		_, err = f.svc.SubmitAnswer(ctx, f.candidate.ID, model.SubmitAnswerRequest{QuestionIndex: model.QuestionCount})
		assert.ErrorIs(t, err, ErrAlreadyCompleted)

		_, err = f.svc.StartOrResume(ctx, f.candidate.ID)
		assert.ErrorIs(t, err, ErrAlreadyCompleted)
	})

	t.Run("empty answer is accepted and scored", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.StartOrResume(ctx, f.candidate.ID)
		require.NoError(t, err)

		res := submit(t, f, 0, "")
		assert.Equal(t, 3, res.Score)
		assert.NotEmpty(t, res.Feedback)
	})

	t.Run("concurrent progress surfaces as stale", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.StartOrResume(ctx, f.candidate.ID)
		require.NoError(t, err)

		f.interviews.staleNext = true
		_, err = f.svc.SubmitAnswer(ctx, f.candidate.ID, model.SubmitAnswerRequest{Answer: "answer"})
		assert.ErrorIs(t, err, repository.ErrStaleInterview)
	})
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("no interviews at index zero is NOT_STARTED", func(t *testing.T) {
		f := newFixture(t)
		status, err := f.svc.Status(ctx, f.candidate.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, model.StateNotStarted, status.State)
		assert.Equal(t, model.QuestionCount, status.TotalQuestions)
		assert.Nil(t, status.CurrentQuestion)
	})

	t.Run("index out of range", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Status(ctx, f.candidate.ID, 1)
		assert.ErrorIs(t, err, ErrNoInterview)

		_, err = f.svc.Status(ctx, f.candidate.ID, -1)
		assert.ErrorIs(t, err, ErrNoInterview)
	})

	t.Run("in-progress view tracks current question", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.StartOrResume(ctx, f.candidate.ID)
		require.NoError(t, err)
		submit(t, f, 0, "first answer")

		status, err := f.svc.Status(ctx, f.candidate.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, model.StateInProgress, status.State)
		assert.Equal(t, 1, status.AnsweredCount)
		require.NotNil(t, status.CurrentQuestion)
		assert.Equal(t, 1, status.CurrentQuestion.Index)
		assert.Nil(t, status.FinalScore)
	})
}

func TestAuthorizeRetake(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.StartOrResume(ctx, f.candidate.ID)
	require.NoError(t, err)
	for i := 0; i < model.QuestionCount; i++ {
		submit(t, f, i, "answer")
	}
	require.Equal(t, model.CandidateStatusCompleted, f.candidate.Status)

	require.NoError(t, f.svc.AuthorizeRetake(ctx, f.candidate.ID))

	assert.Empty(t, f.interviews.byCandidate[f.candidate.ID])
	assert.Equal(t, model.CandidateStatusApplied, f.candidate.Status)
	assert.Contains(t, f.bus.cleared, f.candidate.ID.String())
	require.NotEmpty(t, f.bus.enqueued)
	assert.Equal(t, "retake_authorized", f.bus.enqueued[len(f.bus.enqueued)-1].EventType)
	last := f.bus.published[len(f.bus.published)-1]
	assert.Equal(t, string(model.StateNotStarted), last.State)

	status, err := f.svc.Status(ctx, f.candidate.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, model.StateNotStarted, status.State)

	res, err := f.svc.StartOrResume(ctx, f.candidate.ID)
	require.NoError(t, err)
	assert.False(t, res.Resumed)

	t.Run("retake with nothing to reset is a no-op", func(t *testing.T) {
		g := newFixture(t)
		require.NoError(t, g.svc.AuthorizeRetake(ctx, g.candidate.ID))
		assert.Equal(t, model.CandidateStatusApplied, g.candidate.Status)
	})
}
