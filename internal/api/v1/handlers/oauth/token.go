package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/deepgram/dictator/internal/config"
	"github.com/deepgram/dictator/internal/services/oauth"
	"github.com/deepgram/dictator/pkg/httpext"
)

// use a single instance of Validate, it caches struct info
var validate = validator.New(validator.WithRequiredStructEnabled())

type TokenRequest struct {
	GrantType     string `json:"grant_type" validate:"required,eq=participant"`
	ParticipantID string `json:"participant_id,omitempty" validate:"omitempty,uuid"`
}

type TokenResponse struct {
	AccessToken   string `json:"access_token"`
	TokenType     string `json:"token_type"`
	ExpiresIn     int    `json:"expires_in"`
	ParticipantID string `json:"participant_id"`
}

// HandleToken issues a participant token. Passing an existing participant_id
// lets a returning participant resume their thread.
func HandleToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Client sent malformed token request")
		httpext.JsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		log.Warn().Err(err).Msg("Token request validation failed")
		httpext.JsonError(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	lifetime := config.GetTokenLifetime()
	token, participantID, err := oauth.IssueParticipantToken(req.ParticipantID, lifetime)
	if err != nil {
		if errors.Is(err, oauth.ErrInvalidParticipant) {
			httpext.JsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Msg("Failed to issue participant token")
		httpext.JsonError(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	log.Info().Str("participant_id", participantID).Msg("Participant token issued")

	httpext.JsonResponse(w, http.StatusOK, TokenResponse{
		AccessToken:   token,
		TokenType:     "Bearer",
		ExpiresIn:     int(lifetime.Seconds()),
		ParticipantID: participantID,
	})
}
