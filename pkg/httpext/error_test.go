package httpext

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonError(t *testing.T) {
	tests := []struct {
		name    string
		message string
		code    int
	}{
		{"Basic error", "Something went wrong", http.StatusBadRequest},
		{"Internal server error", "Internal error", http.StatusInternalServerError},
		{"Gateway timeout", "Assistant run timed out", http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JsonError(w, tt.message, tt.code)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var response ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, tt.message, response.Error)
			assert.Empty(t, response.ErrorDescription)
		})
	}
}

func TestJsonErrorWithDetails(t *testing.T) {
	w := httptest.NewRecorder()
	JsonErrorWithDetails(w, http.StatusBadGateway, ErrorResponse{
		Error:            "run_failed",
		ErrorDescription: "rate_limit_exceeded",
	})

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "run_failed", response.Error)
	assert.Equal(t, "rate_limit_exceeded", response.ErrorDescription)
}

func TestJsonResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JsonResponse(w, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
