package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/deepgram/dictator/internal/config"
	"github.com/deepgram/dictator/internal/connections"
	"github.com/deepgram/dictator/internal/infrastructure/openai"
	"github.com/deepgram/dictator/internal/infrastructure/redis"
	"github.com/deepgram/dictator/internal/services/assistant"
	"github.com/deepgram/dictator/internal/services/dictator"
	"github.com/deepgram/dictator/internal/services/session"
)

var (
	// Mutex for thread-safe initialization
	servicesMu sync.RWMutex

	ErrOpenAIUnavailable = errors.New("OpenAI service unavailable")
)

type Services struct {
	openAIService     *openai.Service
	redisService      *redis.Service
	sessionStore      session.Store
	dictatorService   *dictator.Service
	connectionManager *connections.Manager
}

// InitializeServices initializes all required services against the OpenAI API
func InitializeServices(ctx context.Context, cfg *config.AppConfig) (*Services, error) {
	// Initialize OpenAI service (required)
	openAIService := openai.NewService(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	if openAIService == nil {
		log.Error().Msg("Failed to initialize OpenAI service - service is required for core functionality")
		return nil, ErrOpenAIUnavailable
	}

	s, err := InitializeServicesWithBackend(ctx, cfg, openAIService.GetClient())
	if err != nil {
		return nil, err
	}
	s.openAIService = openAIService
	return s, nil
}

// InitializeServicesWithBackend initializes the services on top of an
// arbitrary assistant backend.
func InitializeServicesWithBackend(ctx context.Context, cfg *config.AppConfig, backend assistant.Backend) (*Services, error) {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	log.Info().Msg("Initializing core services")

	// Initialize Redis service (optional)
	var redisService *redis.Service
	if cfg.RedisURL != "" {
		redisService = redis.NewService(cfg.RedisURL, cfg.RedisPassword)
		log.Info().Msg("Initializing Redis service")
	}

	// Initialize session store with optional Redis
	sessionStore := session.NewStore(redisService, cfg.SessionTTL)
	log.Info().Msg("Initializing session store")

	// Initialize the game (required)
	dictatorService, err := dictator.NewService(ctx, backend, cfg.Assistant(), sessionStore)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize dictator service - required for message processing")
		if redisService != nil {
			redisService.Close()
		}
		return nil, fmt.Errorf("failed to initialize dictator service: %w", err)
	}
	log.Info().Str("assistant_id", dictatorService.AssistantID()).Msg("Initializing dictator service")

	log.Info().Msg("All services initialized successfully")

	return &Services{
		redisService:      redisService,
		sessionStore:      sessionStore,
		dictatorService:   dictatorService,
		connectionManager: connections.NewManager(connections.DefaultTimeouts),
	}, nil
}

// GetDictatorService returns the dictator service
func (s *Services) GetDictatorService() *dictator.Service {
	return s.dictatorService
}

// GetConnectionManager returns the WebSocket connection manager
func (s *Services) GetConnectionManager() *connections.Manager {
	return s.connectionManager
}

// GetSessionStore returns the session store
func (s *Services) GetSessionStore() session.Store {
	return s.sessionStore
}

// Close releases the Redis connection when one is open
func (s *Services) Close() error {
	if s.redisService != nil {
		return s.redisService.Close()
	}
	return nil
}
