package game

import (
	"errors"
	"net/http"

	"github.com/deepgram/dictator/internal/services/assistant"
	"github.com/deepgram/dictator/internal/services/dictator"
)

// ErrorStatus maps a game error to an HTTP status and a client-safe message.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, assistant.ErrEmptyMessage), errors.Is(err, dictator.ErrMissingParticipant):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, assistant.ErrRunFailed):
		return http.StatusBadGateway, "Assistant run failed"
	case errors.Is(err, assistant.ErrRunTimeout), errors.Is(err, assistant.ErrPollExhausted):
		return http.StatusGatewayTimeout, "Assistant did not respond in time"
	default:
		return http.StatusInternalServerError, "Failed to process message"
	}
}
