package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/deepgram/dictator/pkg/logger"
)

var (
	fileValuesMu sync.RWMutex
	fileValues   = map[string]string{}
)

// GetEnvOrDefault returns the value of an environment variable, then the
// value loaded from CONFIG_FILE, then defaultValue.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	fileValuesMu.RLock()
	value, ok := fileValues[key]
	fileValuesMu.RUnlock()
	if ok && value != "" {
		return value
	}

	return defaultValue
}

// SetFileValues replaces the file-backed values and returns a function to restore them
// This is primarily used for testing
func SetFileValues(values map[string]string) func() {
	fileValuesMu.Lock()
	previous := fileValues
	fileValues = values
	fileValuesMu.Unlock()

	return func() {
		fileValuesMu.Lock()
		fileValues = previous
		fileValuesMu.Unlock()
	}
}

func parseEnvInt(key string, defaultValue int) int {
	val := GetEnvOrDefault(key, "")
	if val == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		logger.Warn(logger.CONFIG, "Invalid value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return parsed
}

func parseEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := GetEnvOrDefault(key, "")
	if val == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(val)
	if err != nil || parsed < 0 {
		logger.Warn(logger.CONFIG, "Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return parsed
}

func parseEnvBool(key string, defaultValue bool) bool {
	val := GetEnvOrDefault(key, "")
	if val == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(val)
	if err != nil {
		logger.Warn(logger.CONFIG, "Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return parsed
}
