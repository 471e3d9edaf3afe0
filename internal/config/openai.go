package config

import "github.com/deepgram/dictator/pkg/logger"

// GetOpenAIKey returns the OpenAI API key, accepting OPENAI_API_KEY as a fallback
func GetOpenAIKey() string {
	value := GetEnvOrDefault("OPENAI_KEY", "")
	if value == "" {
		value = GetEnvOrDefault("OPENAI_API_KEY", "")
	}
	if value == "" {
		logger.Warn(logger.CONFIG, "OPENAI_KEY environment variable not set")
	}
	return value
}

func GetOpenAIModel() string {
	return GetEnvOrDefault("OPENAI_MODEL", "gpt-4o")
}

// GetOpenAIBaseURL returns an override for the API base URL, empty for the default
func GetOpenAIBaseURL() string {
	return GetEnvOrDefault("OPENAI_BASE_URL", "")
}
