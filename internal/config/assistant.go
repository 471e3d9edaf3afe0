package config

import (
	"time"

	"github.com/deepgram/dictator/internal/services/assistant"
)

func GetInstructionsPath() string {
	return GetEnvOrDefault("INSTRUCTIONS_PATH", "instructions.txt")
}

func GetAssistantName() string {
	return GetEnvOrDefault("ASSISTANT_NAME", assistant.DefaultName)
}

// GetAssistantID returns the id of an existing assistant to reuse, if any
func GetAssistantID() string {
	return GetEnvOrDefault("ASSISTANT_ID", "")
}

func GetPollConfig() assistant.PollConfig {
	defaults := assistant.DefaultPollConfig()

	return assistant.PollConfig{
		Interval:    parseEnvDuration("POLL_INTERVAL", defaults.Interval),
		MaxInterval: parseEnvDuration("POLL_MAX_INTERVAL", defaults.MaxInterval),
		Multiplier:  defaults.Multiplier,
		MaxAttempts: parseEnvInt("POLL_MAX_ATTEMPTS", defaults.MaxAttempts),
		Timeout:     parseEnvDuration("RUN_TIMEOUT", defaults.Timeout),
	}
}

func GetSessionTTL() time.Duration {
	return parseEnvDuration("SESSION_TTL", 24*time.Hour)
}
