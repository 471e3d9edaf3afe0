package config

import (
	"time"

	"github.com/deepgram/dictator/pkg/logger"
)

type RateLimitConfig struct {
	Enabled bool
	MaxHits int
	Window  time.Duration
}

func GetRateLimitConfig(key string) RateLimitConfig {
	enabled := parseEnvBool("RATELIMIT_ENABLED", false)

	configs := map[string]RateLimitConfig{
		"oauth_token": {
			Enabled: enabled,
			MaxHits: parseEnvInt("RATELIMIT_OAUTH_TOKEN", 30), // 30 requests per minute
			Window:  time.Minute,
		},
		"messages": {
			Enabled: enabled,
			MaxHits: parseEnvInt("RATELIMIT_MESSAGES", 60), // 60 requests per minute
			Window:  time.Minute,
		},
	}

	if config, exists := configs[key]; exists {
		return config
	}

	logger.Warn(logger.CONFIG, "No rate limit config found for key: %s", key)
	return RateLimitConfig{Enabled: false}
}
