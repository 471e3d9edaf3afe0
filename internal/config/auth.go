package config

import (
	"sync"
	"time"
)

const defaultJWTSecret = "your-256-bit-secret"

var (
	jwtSecretMu sync.RWMutex
	// jwtSecretOverride replaces JWT_SECRET while set
	jwtSecretOverride []byte
)

// SetJWTSecret temporarily changes the JWT secret and returns a function to restore it
// This is primarily used for testing
func SetJWTSecret(secret []byte) func() {
	jwtSecretMu.Lock()
	previous := jwtSecretOverride
	jwtSecretOverride = secret
	jwtSecretMu.Unlock()

	return func() {
		jwtSecretMu.Lock()
		jwtSecretOverride = previous
		jwtSecretMu.Unlock()
	}
}

// GetJWTSecret returns the secret used to sign participant tokens. It is
// resolved on every call so a CONFIG_FILE loaded after start-up applies.
func GetJWTSecret() []byte {
	jwtSecretMu.RLock()
	override := jwtSecretOverride
	jwtSecretMu.RUnlock()

	if override != nil {
		return override
	}
	return []byte(GetEnvOrDefault("JWT_SECRET", defaultJWTSecret))
}

// GetTokenLifetime returns how long an issued participant token stays valid
func GetTokenLifetime() time.Duration {
	return parseEnvDuration("TOKEN_LIFETIME", time.Hour)
}
