package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/deepgram/dictator/internal/services/oauth"
	"github.com/deepgram/dictator/pkg/httpext"
)

type contextKey string

const (
	tokenValidationKey contextKey = "tokenValidation"
)

// RequireAuth rejects requests without a valid participant token carrying scope.
func RequireAuth(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := oauth.ExtractToken(r)
			if tokenString == "" {
				httpext.JsonError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			validation := oauth.ValidateToken(tokenString)
			if !validation.Valid {
				httpext.JsonError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			if !validation.HasScope(scope) {
				log.Warn().
					Str("required_scope", scope).
					Strs("token_scopes", validation.Scopes).
					Str("path", r.URL.Path).
					Msg("Access denied - token missing required scope")
				httpext.JsonError(w, "Missing required scope", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), tokenValidationKey, &validation)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTokenValidation retrieves the token validation result from the request context
func GetTokenValidation(r *http.Request) *oauth.TokenValidationResult {
	if validation, ok := r.Context().Value(tokenValidationKey).(*oauth.TokenValidationResult); ok {
		return validation
	}
	return nil
}

// GetParticipantID returns the authenticated participant, or an empty string.
func GetParticipantID(r *http.Request) string {
	if validation := GetTokenValidation(r); validation != nil {
		return validation.ParticipantID
	}
	return ""
}
