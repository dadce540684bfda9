package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/intervue/intervue-backend/internal/model"
	"github.com/rs/zerolog"
)

// Adapter exposes the three oracle operations. Each attempts the external
// call (when enabled) and resolves every failure — transport, status,
// malformed JSON, error-shaped payloads — with a deterministic local
// fallback. No method returns an error: the interview flow must never fail
// solely because the oracle is down.
type Adapter struct {
	client  *Client
	enabled bool
	log     zerolog.Logger
}

// NewAdapter creates an Adapter. The enabled flag is an explicit capability
// injected at construction; a disabled adapter runs entirely on fallbacks.
func NewAdapter(client *Client, enabled bool, log zerolog.Logger) *Adapter {
	return &Adapter{
		client:  client,
		enabled: enabled && client != nil,
		log:     log.With().Str("component", "oracle").Logger(),
	}
}

// ─── Question generation ────────────────────────────────────────────

type generatedQuestions struct {
	Questions []struct {
		Question     string `json:"question"`
		QuestionText string `json:"questionText"`
	} `json:"questions"`
}

// GenerateQuestions returns exactly 6 questions in the fixed 2 easy / 2
// medium / 2 hard shape at 20/60/120 seconds. Oracle output that cannot
// fill all six slots is discarded entirely — fallback and oracle questions
// are never mixed, keeping the timing/difficulty contract consistent.
func (a *Adapter) GenerateQuestions(ctx context.Context, resumeText string) []model.Question {
	if !a.enabled {
		return FallbackQuestions()
	}

	raw, err := a.client.Complete(ctx, generateSystemPrompt, fmt.Sprintf(generatePromptFmt, resumeText))
	if err != nil {
		a.log.Warn().Err(err).Msg("question generation failed, using fallback pool")
		return FallbackQuestions()
	}

	var parsed generatedQuestions
	if err := decodeLenient(raw, &parsed); err != nil {
		a.log.Warn().Err(err).Msg("question payload unparseable, using fallback pool")
		return FallbackQuestions()
	}

	if len(parsed.Questions) < model.QuestionCount {
		a.log.Warn().Int("count", len(parsed.Questions)).Msg("oracle returned too few questions, using fallback pool")
		return FallbackQuestions()
	}

	questions := make([]model.Question, 0, model.QuestionCount)
	for i, shape := range questionShape {
		text := strings.TrimSpace(parsed.Questions[i].Question)
		if text == "" {
			text = strings.TrimSpace(parsed.Questions[i].QuestionText)
		}
		if text == "" {
			a.log.Warn().Int("index", i).Msg("oracle question missing text, using fallback pool")
			return FallbackQuestions()
		}
		questions = append(questions, model.Question{
			Text:             text,
			Difficulty:       shape.difficulty,
			TimeLimitSeconds: shape.timeLimit,
		})
	}
	return questions
}

// ─── Answer scoring ─────────────────────────────────────────────────

type scoredAnswer struct {
	Score    *int   `json:"score"`
	Feedback string `json:"feedback"`
}

// ScoreAnswer evaluates an answer against its question. The external score
// is clamped to [1,10]; a missing score or error-shaped feedback falls back
// to the keyword heuristic (the oracle sometimes "succeeds" with an error
// payload).
func (a *Adapter) ScoreAnswer(ctx context.Context, questionText, answerText string) model.Evaluation {
	if !a.enabled {
		return heuristicScore(questionText, answerText)
	}

	raw, err := a.client.Complete(ctx, scoreSystemPrompt, fmt.Sprintf(scorePromptFmt, questionText, answerText))
	if err != nil {
		a.log.Warn().Err(err).Msg("answer scoring failed, using heuristic")
		return heuristicScore(questionText, answerText)
	}

	var parsed scoredAnswer
	if err := decodeLenient(raw, &parsed); err != nil {
		a.log.Warn().Err(err).Msg("score payload unparseable, using heuristic")
		return heuristicScore(questionText, answerText)
	}

	if parsed.Score == nil || strings.Contains(strings.ToLower(parsed.Feedback), "error") {
		return heuristicScore(questionText, answerText)
	}

	score := *parsed.Score
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}

	feedback := strings.TrimSpace(parsed.Feedback)
	if feedback == "" {
		return heuristicScore(questionText, answerText)
	}

	return model.Evaluation{Score: score, Feedback: feedback}
}

// ─── Summarization ──────────────────────────────────────────────────

type summarized struct {
	OverallScore   *float64 `json:"overallScore"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	Recommendation string   `json:"recommendation"`
}

// Summarize derives the final evaluation from all six rounds.
func (a *Adapter) Summarize(ctx context.Context, results []RoundResult) model.Summary {
	if !a.enabled {
		return fallbackSummary(results)
	}

	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fallbackSummary(results)
	}

	raw, err := a.client.Complete(ctx, summarySystemPrompt, fmt.Sprintf(summaryPromptFmt, payload))
	if err != nil {
		a.log.Warn().Err(err).Msg("summary generation failed, using fallback")
		return fallbackSummary(results)
	}

	var parsed summarized
	if err := decodeLenient(raw, &parsed); err != nil {
		a.log.Warn().Err(err).Msg("summary payload unparseable, using fallback")
		return fallbackSummary(results)
	}

	if parsed.OverallScore == nil || strings.TrimSpace(parsed.Recommendation) == "" {
		return fallbackSummary(results)
	}

	return model.Summary{
		OverallScore:   *parsed.OverallScore,
		Strengths:      parsed.Strengths,
		Weaknesses:     parsed.Weaknesses,
		Recommendation: strings.TrimSpace(parsed.Recommendation),
	}
}

// ─── Prompts ────────────────────────────────────────────────────────

const (
	generateSystemPrompt = "You are an expert interviewer. Return only valid JSON."
	scoreSystemPrompt    = "You are an expert evaluator. Return only valid JSON."
	summarySystemPrompt  = "You are an expert evaluator. Return only valid JSON."

	generatePromptFmt = `You are an AI interviewer for a Full Stack Developer (React/Node.js) position. Based on this resume:

"%s"

Generate exactly 6 technical interview questions following this structure:
- 2 Easy questions (20 seconds each)
- 2 Medium questions (60 seconds each)
- 2 Hard questions (120 seconds each)

Return only JSON in this exact format:
{
  "questions": [
    { "question": "Easy question here", "difficulty": "easy", "timeLimit": 20 },
    { "question": "Easy question here", "difficulty": "easy", "timeLimit": 20 },
    { "question": "Medium question here", "difficulty": "medium", "timeLimit": 60 },
    { "question": "Medium question here", "difficulty": "medium", "timeLimit": 60 },
    { "question": "Hard question here", "difficulty": "hard", "timeLimit": 120 },
    { "question": "Hard question here", "difficulty": "hard", "timeLimit": 120 }
  ]
}`

	scorePromptFmt = `Question: "%s"
Candidate's Answer: "%s"

Give a score between 1 and 10 and short feedback. Return JSON:
{
  "score": 8,
  "feedback": "Good explanation, but missed edge cases."
}`

	summaryPromptFmt = `These are the interview results:

%s

Generate a final evaluation in JSON:
{
  "overallScore": 7.5,
  "strengths": ["Good React skills", "Clear communication"],
  "weaknesses": ["Weak in system design"],
  "recommendation": "Suitable for frontend roles."
}`
)
