package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/deepgram/dictator/internal/infrastructure/redis"
	"github.com/deepgram/dictator/pkg/logger"
)

const keyPrefix = "dictator:session:"

// Session binds an experiment participant to a remote thread.
type Session struct {
	ParticipantID string    `json:"participant_id"`
	AssistantID   string    `json:"assistant_id"`
	ThreadID      string    `json:"thread_id"`
	Turns         int       `json:"turns"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Store persists sessions. Get returns (nil, nil) for unknown participants.
type Store interface {
	Set(ctx context.Context, session *Session) error
	Get(ctx context.Context, participantID string) (*Session, error)
	Delete(ctx context.Context, participantID string) error
}

type RedisStore struct {
	redisService *redis.Service
	ttl          time.Duration
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewStore returns a Redis-backed store when redisService is reachable and
// an in-memory store otherwise.
func NewStore(redisService *redis.Service, ttl time.Duration) Store {
	if redisService != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisService.Ping(ctx); err == nil {
			logger.Info(logger.SESSION, "Using Redis session store")
			return &RedisStore{redisService: redisService, ttl: ttl}
		}
		logger.Warn(logger.SESSION, "Redis unreachable - falling back to in-memory session store")
	}

	return NewMemoryStore()
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
	}
}

// Redis Store implementation
func (rs *RedisStore) Set(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return rs.redisService.Set(ctx, keyPrefix+session.ParticipantID, string(data), rs.ttl)
}

func (rs *RedisStore) Get(ctx context.Context, participantID string) (*Session, error) {
	data, err := rs.redisService.Get(ctx, keyPrefix+participantID)
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", participantID, err)
	}

	return &session, nil
}

func (rs *RedisStore) Delete(ctx context.Context, participantID string) error {
	return rs.redisService.Delete(ctx, keyPrefix+participantID)
}

// Memory Store implementation
func (ms *MemoryStore) Set(ctx context.Context, session *Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sessions[session.ParticipantID] = *session
	return nil
}

func (ms *MemoryStore) Get(ctx context.Context, participantID string) (*Session, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	session, exists := ms.sessions[participantID]
	if !exists {
		return nil, nil
	}
	return &session, nil
}

func (ms *MemoryStore) Delete(ctx context.Context, participantID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.sessions, participantID)
	return nil
}
