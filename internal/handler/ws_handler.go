package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/intervue/intervue-backend/internal/config"
	"github.com/intervue/intervue-backend/internal/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	ws "github.com/intervue/intervue-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live interview progress to monitoring interviewers.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// MonitorCandidate godoc
// WS /ws/v1/candidates/:id/monitor
// Subscribes to the candidate's progress channel. The cached snapshot goes
// out first so a monitor joining mid-interview sees state immediately, then
// every transition arrives live via Redis pub/sub.
func (h *WSHandler) MonitorCandidate(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	candidateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate ID"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("interviewer_id", claims.InterviewerID).
		Str("candidate_id", candidateID.String()).
		Logger()
	wsLog.Info().Msg("Monitor connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Snapshot first. Missing snapshot just means the interview has not
	// produced progress yet.
	if snapshot, err := h.rdb.Get(ctx, config.CacheKey.CandidateProgressKey(candidateID.String())).Result(); err == nil {
		conn.WriteMessage(websocket.TextMessage, []byte(snapshot))
	}

	pubsub := h.rdb.Subscribe(ctx, config.CacheKey.CandidateMonitorChannel(candidateID.String()))
	defer pubsub.Close()

	h.serveMonitor(ctx, cancel, conn, pubsub.Channel(), wsLog)
}

// serveMonitor pumps progress events and pong replies to the client. The
// connection permits only one concurrent writer, so the reader goroutine
// never writes: pings are routed through a channel and answered by the
// same loop that forwards pub/sub payloads.
func (h *WSHandler) serveMonitor(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, events <-chan *redis.Message, wsLog zerolog.Logger) {
	pings := make(chan struct{}, 1)

	// Reader goroutine: consumes pings and detects the close.
	go func() {
		defer cancel()
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Monitor disconnected")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				select {
				case pings <- struct{}{}:
				default: // a pong is already pending
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed, closing monitor")
				return
			}
		case msg, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed, closing monitor")
				return
			}
		}
	}
}
