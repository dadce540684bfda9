package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventPong     Event = "pong"
	EventProgress Event = "progress"
)

// ProgressEvent is pushed to monitoring interviewers whenever the watched
// candidate's interview advances: session start, each scored answer, and
// completion.
type ProgressEvent struct {
	Event           Event    `json:"event"`
	CandidateID     string   `json:"candidate_id"`
	State           string   `json:"state"`
	CurrentQuestion int      `json:"current_question"`
	LastScore       *int     `json:"last_score,omitempty"`
	FinalScore      *float64 `json:"final_score,omitempty"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
