package game

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/deepgram/dictator/internal/api/v1/middleware"
	"github.com/deepgram/dictator/internal/services/dictator"
	"github.com/deepgram/dictator/pkg/httpext"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type MessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

type MessageResponse struct {
	RequestID     string `json:"request_id"`
	ParticipantID string `json:"participant_id"`
	ThreadID      string `json:"thread_id"`
	RunID         string `json:"run_id"`
	Turn          int    `json:"turn"`
	Content       string `json:"content"`
}

// HandleMessage plays one turn of the game for the authenticated participant.
func HandleMessage(game *dictator.Service, w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	participantID := middleware.GetParticipantID(r)

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Str("request_id", requestID).Msg("Client sent malformed JSON request")
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		log.Warn().Err(err).Str("request_id", requestID).Msg("Request validation failed")
		httpext.JsonError(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	turn, err := game.Play(r.Context(), participantID, req.Content)
	if err != nil {
		status, message := ErrorStatus(err)
		log.Error().
			Err(err).
			Str("request_id", requestID).
			Str("participant_id", participantID).
			Int("status", status).
			Msg("Failed to play turn")
		httpext.JsonError(w, message, status)
		return
	}

	log.Info().
		Str("request_id", requestID).
		Str("participant_id", participantID).
		Str("run_id", turn.RunID).
		Int("turn", turn.Turn).
		Msg("Turn completed")

	httpext.JsonResponse(w, http.StatusOK, MessageResponse{
		RequestID:     requestID,
		ParticipantID: turn.ParticipantID,
		ThreadID:      turn.ThreadID,
		RunID:         turn.RunID,
		Turn:          turn.Turn,
		Content:       turn.Content,
	})
}

// HandleResetSession drops the participant's thread.
func HandleResetSession(game *dictator.Service, w http.ResponseWriter, r *http.Request) {
	participantID := middleware.GetParticipantID(r)

	if err := game.Reset(r.Context(), participantID); err != nil {
		status, message := ErrorStatus(err)
		log.Error().Err(err).Str("participant_id", participantID).Msg("Failed to reset session")
		httpext.JsonError(w, message, status)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
