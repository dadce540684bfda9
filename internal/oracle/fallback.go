package oracle

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/intervue/intervue-backend/internal/model"
)

// Curated question pool for the full-stack (React/Node) role. Used whenever
// the external oracle is disabled or fails to produce a usable set. The
// fallback is deterministic and resume-independent.
var (
	easyPool = []string{
		"What is JSX in React and how is it different from HTML?",
		"Explain the difference between var, let, and const in JavaScript.",
		"What is npm and how do you install packages using it?",
		"What are React components and how do you create them?",
		"What is the purpose of package.json in Node.js?",
	}
	mediumPool = []string{
		"Explain the concept of state and props in React. How do they differ?",
		"What is the Node.js event loop and how does it work?",
		"How do you handle asynchronous operations in JavaScript? Explain callbacks, promises, and async/await.",
		"What are React hooks and why were they introduced? Explain useState and useEffect.",
		"How do you create and use middleware in Express.js?",
		"What is the virtual DOM in React and how does it improve performance?",
	}
	hardPool = []string{
		"Design a scalable REST API for a social media platform. Explain your database schema, authentication strategy, and how you'd handle high traffic.",
		"How would you implement real-time features in a React/Node.js application? Discuss WebSockets, Socket.io, and performance considerations.",
		"Explain React's reconciliation algorithm. How does React determine what needs to be updated in the DOM?",
		"Design a caching strategy for a full-stack application. Discuss browser caching, Redis, CDNs, and cache invalidation.",
		"How would you implement server-side rendering (SSR) with React and Node.js? What are the benefits and challenges?",
	}
)

// FallbackQuestions returns the fixed 6-question set: 2 easy (20s),
// 2 medium (60s), 2 hard (120s), in that order.
func FallbackQuestions() []model.Question {
	questions := make([]model.Question, 0, model.QuestionCount)
	for _, text := range easyPool[:2] {
		questions = append(questions, model.Question{Text: text, Difficulty: model.DifficultyEasy, TimeLimitSeconds: 20})
	}
	for _, text := range mediumPool[:2] {
		questions = append(questions, model.Question{Text: text, Difficulty: model.DifficultyMedium, TimeLimitSeconds: 60})
	}
	for _, text := range hardPool[:2] {
		questions = append(questions, model.Question{Text: text, Difficulty: model.DifficultyHard, TimeLimitSeconds: 120})
	}
	return questions
}

// questionShape carries the fixed difficulty/time contract applied to every
// interview regardless of where the question text came from.
var questionShape = []struct {
	difficulty model.Difficulty
	timeLimit  int
}{
	{model.DifficultyEasy, 20},
	{model.DifficultyEasy, 20},
	{model.DifficultyMedium, 60},
	{model.DifficultyMedium, 60},
	{model.DifficultyHard, 120},
	{model.DifficultyHard, 120},
}

const maxKeywords = 8

var nonWordRe = regexp.MustCompile(`\W+`)

// heuristicScore rates an answer by keyword overlap with the question: up
// to 8 distinct lowercase question words, counted as substring hits against
// the lowered answer. Zero hits (including empty answers) score 3; full
// coverage scores 10.
func heuristicScore(questionText, answerText string) model.Evaluation {
	normalized := strings.ToLower(answerText)

	var keywords []string
	seen := make(map[string]struct{})
	for _, tok := range nonWordRe.Split(strings.ToLower(questionText), -1) {
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
		if len(keywords) == maxKeywords {
			break
		}
	}

	var matched []string
	for _, kw := range keywords {
		if strings.Contains(normalized, kw) {
			matched = append(matched, kw)
		}
	}

	density := 0.0
	if len(normalized) > 0 {
		floor := len(keywords)
		if floor < 3 {
			floor = 3
		}
		density = float64(len(matched)) / float64(floor)
		if density > 1 {
			density = 1
		}
	}

	score := int(math.Round(3 + density*7)) // 3..10

	feedback := "Answer lacks relevant keywords from the question; add specifics and examples."
	if len(matched) > 0 {
		top := matched
		if len(top) > 3 {
			top = top[:3]
		}
		feedback = fmt.Sprintf("Good coverage on: %s.", strings.Join(top, ", "))
	}

	return model.Evaluation{Score: score, Feedback: feedback}
}

// RoundResult is one question/answer pair fed into summarization.
type RoundResult struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

const questionRefLen = 40

// fallbackSummary aggregates round scores deterministically: rounded mean
// overall, strengths at score ≥7, weaknesses at ≤4, and a three-tier
// recommendation.
func fallbackSummary(results []RoundResult) model.Summary {
	total := 0
	for _, r := range results {
		total += r.Score
	}
	count := len(results)
	if count == 0 {
		count = 1
	}
	overall := math.Round(float64(total) / float64(count))

	var strengths, weaknesses []string
	for _, r := range results {
		if r.Score >= 7 {
			strengths = append(strengths, "Strong on: "+questionRef(r.Question))
		}
		if r.Score <= 4 {
			weaknesses = append(weaknesses, "Improve: "+questionRef(r.Question))
		}
	}

	recommendation := "Not recommended at this time."
	switch {
	case overall >= 7:
		recommendation = "Recommended to advance."
	case overall >= 5:
		recommendation = "Borderline; consider additional interview."
	}

	return model.Summary{
		OverallScore:   overall,
		Strengths:      strengths,
		Weaknesses:     weaknesses,
		Recommendation: recommendation,
	}
}

// questionRef truncates on rune boundaries: oracle-generated question text
// may be non-ASCII.
func questionRef(q string) string {
	if runes := []rune(q); len(runes) > questionRefLen {
		q = string(runes[:questionRefLen])
	}
	return q + "..."
}
