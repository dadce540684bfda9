package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/intervue/intervue-backend/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	BatchSize    = 50
	BatchTimeout = 2 * time.Second
	PollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

// EventWorker drains the interview audit-event queue from Redis and
// persists events to Postgres in batches. Services enqueue fire-and-forget;
// the interview flow never waits on the audit trail.
type EventWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewEventWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *EventWorker {
	return &EventWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "event_worker").Logger(),
	}
}

// EventPayload is the queued wire form of one interview audit event.
type EventPayload struct {
	CandidateID string `json:"candidate_id"`
	InterviewID string `json:"interview_id,omitempty"`
	EventType   string `json:"event_type"`
	Payload     string `json:"payload"`
	Timestamp   int64  `json:"timestamp"`
}

func (w *EventWorker) Start(ctx context.Context) {
	w.log.Info().Msg("EventWorker started")

	buffer := make([]*EventPayload, 0, BatchSize)
	lastFlushTime := time.Now()

	for {
		// 1. Check flush conditions (time or size)
		if len(buffer) > 0 {
			if len(buffer) >= BatchSize || time.Since(lastFlushTime) >= BatchTimeout {
				w.flushSafe(ctx, buffer)
				buffer = buffer[:0]
				lastFlushTime = time.Now()
			}
		}

		// 2. Check context (graceful shutdown)
		select {
		case <-ctx.Done():
			w.shutdown(buffer)
			return
		default:
		}

		// 3. Fetch from Redis. BLPop blocks for 1 second and returns
		// immediately if data exists.
		result, err := w.rdb.BLPop(ctx, PollTimeout, config.WorkerKey.PersistEventsQueue).Result()

		if err != nil {
			if err == redis.Nil {
				continue // Timeout (queue empty), loop back to check flush timer
			}
			if ctx.Err() != nil {
				return
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			time.Sleep(3 * time.Second)
			continue
		}

		if len(result) < 2 {
			continue
		}

		var payload EventPayload
		if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
			// Malformed JSON cannot be retried. Log and discard.
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed JSON")
			continue
		}

		buffer = append(buffer, &payload)
	}
}

// flushSafe attempts bulk insert, then fallback insert, then requeue.
func (w *EventWorker) flushSafe(ctx context.Context, batch []*EventPayload) {
	if err := w.bulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("count", len(batch)).Msg("Bulk insert failed, attempting row-by-row recovery")
		w.fallbackInsert(ctx, batch)
	}
}

func (w *EventWorker) bulkInsert(ctx context.Context, batch []*EventPayload) error {
	rows := make([][]interface{}, 0, len(batch))
	for _, p := range batch {
		candidateID, interviewID, err := p.parseIDs()
		if err != nil {
			// Return error to trigger fallback, which handles the bad UUID individually
			return err
		}
		rows = append(rows, []interface{}{
			candidateID, interviewID, p.EventType, p.Payload, time.Unix(p.Timestamp, 0),
		})
	}

	_, err := w.pool.CopyFrom(
		ctx,
		pgx.Identifier{"interview_events"},
		[]string{"candidate_id", "interview_id", "event_type", "event_data", "recorded_at"},
		pgx.CopyFromRows(rows),
	)
	return err
}

func (w *EventWorker) fallbackInsert(ctx context.Context, batch []*EventPayload) {
	requeueList := make([]*EventPayload, 0)

	for _, p := range batch {
		candidateID, interviewID, err := p.parseIDs()
		if err != nil {
			w.log.Error().Str("candidate_id", p.CandidateID).Msg("Dropping event with invalid UUID")
			continue
		}

		_, err = w.pool.Exec(ctx,
			`INSERT INTO interview_events (candidate_id, interview_id, event_type, event_data, recorded_at)
             VALUES ($1, $2, $3, $4::jsonb, $5)`,
			candidateID, interviewID, p.EventType, p.Payload, time.Unix(p.Timestamp, 0),
		)

		if err != nil {
			// Requeue everything that fails SQL insert so a DB outage
			// does not lose the audit trail.
			w.log.Error().Err(err).Str("candidate_id", p.CandidateID).Msg("Insert failed, requeueing")
			requeueList = append(requeueList, p)
		}
	}

	if len(requeueList) > 0 {
		w.requeue(ctx, requeueList)
	}
}

func (w *EventWorker) requeue(ctx context.Context, items []*EventPayload) {
	pipe := w.rdb.Pipeline()
	for _, p := range items {
		data, _ := json.Marshal(p)
		pipe.RPush(ctx, config.WorkerKey.PersistEventsQueue, data)
	}
	_, err := pipe.Exec(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("CRITICAL: Failed to requeue items to Redis. Data loss occurred.")
	} else {
		w.log.Info().Int("count", len(items)).Msg("Requeued failed items back to Redis")
		// Sleep a bit to avoid thrashing if the DB is down hard
		time.Sleep(2 * time.Second)
	}
}

func (w *EventWorker) shutdown(buffer []*EventPayload) {
	w.log.Info().Msg("Worker stopping, flushing remaining buffer...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if len(buffer) > 0 {
		w.flushSafe(shutdownCtx, buffer)
	}
}

func (p *EventPayload) parseIDs() (uuid.UUID, *uuid.UUID, error) {
	candidateID, err := uuid.Parse(p.CandidateID)
	if err != nil {
		return uuid.Nil, nil, err
	}
	if p.InterviewID == "" {
		return candidateID, nil, nil
	}
	interviewID, err := uuid.Parse(p.InterviewID)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return candidateID, &interviewID, nil
}
