package openai

import (
	"net/http"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/deepgram/dictator/pkg/logger"
)

const requestTimeout = 60 * time.Second

type Service struct {
	mu     sync.RWMutex
	client *openai.Client
}

// NewService builds an OpenAI client for key, pointed at baseURL when it
// is non-empty. It returns nil when no key is configured.
func NewService(key, baseURL string) *Service {
	logger.Info(logger.SERVICE, "Initialising OpenAI service")

	if key == "" {
		logger.Warn(logger.SERVICE, "OpenAI service not configured - OPENAI_KEY missing")
		return nil
	}

	cfg := openai.DefaultConfig(key)
	if baseURL != "" {
		logger.Info(logger.SERVICE, "Using OpenAI base URL %s", baseURL)
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: requestTimeout}

	return &Service{
		client: openai.NewClientWithConfig(cfg),
	}
}

func (s *Service) GetClient() *openai.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}
