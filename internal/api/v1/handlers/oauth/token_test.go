package oauth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepgram/dictator/internal/services/oauth"
)

func TestHandleToken(t *testing.T) {
	const existing = "0b7c1f6e-6d8c-4f1f-9a57-3c2b1c1e9d40"

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantID     string
	}{
		{name: "new participant", body: `{"grant_type":"participant"}`, wantStatus: http.StatusOK},
		{name: "returning participant", body: `{"grant_type":"participant","participant_id":"` + existing + `"}`, wantStatus: http.StatusOK, wantID: existing},
		{name: "wrong grant type", body: `{"grant_type":"client_credentials"}`, wantStatus: http.StatusBadRequest},
		{name: "missing grant type", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "participant id not a uuid", body: `{"grant_type":"participant","participant_id":"bob"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed json", body: `{"grant_type":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/oauth/token", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			HandleToken(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp TokenResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, "Bearer", resp.TokenType)
			assert.Positive(t, resp.ExpiresIn)
			if tt.wantID != "" {
				assert.Equal(t, tt.wantID, resp.ParticipantID)
			}

			validation := oauth.ValidateToken(resp.AccessToken)
			assert.True(t, validation.Valid)
			assert.Equal(t, resp.ParticipantID, validation.ParticipantID)
			assert.True(t, validation.HasScope(oauth.ScopePlay))
		})
	}
}
