package config

import (
	"errors"
	"time"

	"github.com/deepgram/dictator/internal/services/assistant"
	"github.com/deepgram/dictator/pkg/logger"
)

var ErrMissingOpenAIKey = errors.New("OPENAI_KEY environment variable not set")

// AppConfig is the process configuration assembled from the environment
// and the optional CONFIG_FILE.
type AppConfig struct {
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	InstructionsPath string
	AssistantName    string
	AssistantID      string
	Poll             assistant.PollConfig

	RedisURL      string
	RedisPassword string
	SessionTTL    time.Duration

	Port string
}

// Load reads CONFIG_FILE (when set) and the environment.
func Load() (*AppConfig, error) {
	if path := GetEnvOrDefault("CONFIG_FILE", ""); path != "" {
		if err := LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg := &AppConfig{
		OpenAIKey:        GetOpenAIKey(),
		OpenAIModel:      GetOpenAIModel(),
		OpenAIBaseURL:    GetOpenAIBaseURL(),
		InstructionsPath: GetInstructionsPath(),
		AssistantName:    GetAssistantName(),
		AssistantID:      GetAssistantID(),
		Poll:             GetPollConfig(),
		RedisURL:         GetRedisURL(),
		RedisPassword:    GetRedisPassword(),
		SessionTTL:       GetSessionTTL(),
		Port:             GetEnvOrDefault("PORT", "8080"),
	}

	if cfg.OpenAIKey == "" {
		return nil, ErrMissingOpenAIKey
	}

	logger.Info(logger.CONFIG, "Configuration loaded (model=%s, instructions=%s)", cfg.OpenAIModel, cfg.InstructionsPath)
	return cfg, nil
}

// Assistant returns the client configuration derived from c.
func (c *AppConfig) Assistant() assistant.Config {
	return assistant.Config{
		APIKey:           c.OpenAIKey,
		Model:            c.OpenAIModel,
		InstructionsPath: c.InstructionsPath,
		Name:             c.AssistantName,
		AssistantID:      c.AssistantID,
		Poll:             c.Poll,
	}
}
