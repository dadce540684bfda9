package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/intervue/intervue-backend/internal/config"
	ws "github.com/intervue/intervue-backend/internal/websocket"
	"github.com/intervue/intervue-backend/internal/worker"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// EventBus fans interview activity out to the two async consumers: the
// Redis pub/sub channel feeding monitor WebSockets, and the persistence
// queue drained by the event worker. Both are best-effort; failures are
// logged, never surfaced.
type EventBus interface {
	PublishProgress(ctx context.Context, candidateID string, event ws.ProgressEvent)
	EnqueueEvent(ctx context.Context, payload worker.EventPayload)
	CacheProgress(ctx context.Context, candidateID string, event ws.ProgressEvent)
	ClearProgress(ctx context.Context, candidateID string)
}

// RedisBus is the production EventBus.
type RedisBus struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisBus creates a RedisBus.
func NewRedisBus(rdb *redis.Client, log zerolog.Logger) *RedisBus {
	return &RedisBus{rdb: rdb, log: log.With().Str("component", "event_bus").Logger()}
}

// PublishProgress pushes a progress event to the candidate's monitor
// channel. Subscribers are interviewer WebSockets; no subscriber is fine.
func (b *RedisBus) PublishProgress(ctx context.Context, candidateID string, event ws.ProgressEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		b.log.Error().Err(err).Msg("marshal progress event")
		return
	}
	if err := b.rdb.Publish(ctx, config.CacheKey.CandidateMonitorChannel(candidateID), data).Err(); err != nil {
		b.log.Warn().Err(err).Str("candidate_id", candidateID).Msg("publish progress event")
	}
}

// EnqueueEvent pushes an audit event onto the persistence queue.
func (b *RedisBus) EnqueueEvent(ctx context.Context, payload worker.EventPayload) {
	if payload.Timestamp == 0 {
		payload.Timestamp = time.Now().Unix()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		b.log.Error().Err(err).Msg("marshal audit event")
		return
	}
	if err := b.rdb.RPush(ctx, config.WorkerKey.PersistEventsQueue, data).Err(); err != nil {
		b.log.Warn().Err(err).Str("candidate_id", payload.CandidateID).Msg("enqueue audit event")
	}
}

// CacheProgress stores the latest progress snapshot so a monitor that
// connects mid-interview gets an immediate first frame.
func (b *RedisBus) CacheProgress(ctx context.Context, candidateID string, event ws.ProgressEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		b.log.Error().Err(err).Msg("marshal progress snapshot")
		return
	}
	if err := b.rdb.Set(ctx, config.CacheKey.CandidateProgressKey(candidateID), data, 24*time.Hour).Err(); err != nil {
		b.log.Warn().Err(err).Str("candidate_id", candidateID).Msg("cache progress snapshot")
	}
}

// ClearProgress drops the cached snapshot. Used on retake.
func (b *RedisBus) ClearProgress(ctx context.Context, candidateID string) {
	if err := b.rdb.Del(ctx, config.CacheKey.CandidateProgressKey(candidateID)).Err(); err != nil {
		b.log.Warn().Err(err).Str("candidate_id", candidateID).Msg("clear progress snapshot")
	}
}
