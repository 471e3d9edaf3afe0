package oauth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/deepgram/dictator/internal/config"
	"github.com/deepgram/dictator/pkg/logger"
)

const (
	GrantTypeParticipant = "participant"
	ScopePlay            = "game:play"
)

var ErrInvalidParticipant = errors.New("participant id must be a UUID")

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		logger.Debug(logger.OAUTH, "No Authorization header found")
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		logger.Warn(logger.OAUTH, "Malformed Authorization header")
		return ""
	}

	return parts[1]
}

// TokenValidationResult is the outcome of validating a participant token.
type TokenValidationResult struct {
	Valid         bool
	ParticipantID string
	GrantType     string
	ExpiresAt     time.Time
	Scopes        []string
}

// HasScope reports whether the token carries scope.
func (r TokenValidationResult) HasScope(scope string) bool {
	for _, s := range r.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

type CustomClaims struct {
	jwt.RegisteredClaims
	GrantType string   `json:"gty"`
	Scopes    []string `json:"scp"`
}

// IssueParticipantToken signs a token for participantID, generating a new
// participant id when it is empty. It returns the token and the id used.
func IssueParticipantToken(participantID string, lifetime time.Duration) (string, string, error) {
	if participantID == "" {
		participantID = uuid.New().String()
	} else if _, err := uuid.Parse(participantID); err != nil {
		return "", "", ErrInvalidParticipant
	}

	now := time.Now()
	claims := CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   participantID,
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		GrantType: GrantTypeParticipant,
		Scopes:    []string{ScopePlay},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.GetJWTSecret())
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}

	logger.Debug(logger.OAUTH, "Issued participant token for %s", participantID)
	return signed, participantID, nil
}

func ValidateToken(tokenString string) TokenValidationResult {
	result := TokenValidationResult{Valid: false}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return config.GetJWTSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		logger.Warn(logger.OAUTH, "Failed to parse token: %v", err)
		return result
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		logger.Warn(logger.OAUTH, "Invalid token claims")
		return result
	}

	if claims.GrantType != GrantTypeParticipant {
		logger.Warn(logger.OAUTH, "Invalid grant type in token: %s", claims.GrantType)
		return result
	}
	if claims.Subject == "" {
		logger.Warn(logger.OAUTH, "Missing participant in token")
		return result
	}

	result.Valid = true
	result.ParticipantID = claims.Subject
	result.GrantType = claims.GrantType
	result.Scopes = claims.Scopes
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result
}
