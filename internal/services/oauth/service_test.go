package oauth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepgram/dictator/internal/config"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", ""},
		{"bearer token", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"wrong scheme", "Basic abc", ""},
		{"too many parts", "Bearer a b", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, ExtractToken(r))
		})
	}
}

func TestIssueAndValidate(t *testing.T) {
	restore := config.SetJWTSecret([]byte("test-secret"))
	defer restore()

	t.Run("generated participant", func(t *testing.T) {
		token, participantID, err := IssueParticipantToken("", time.Hour)
		require.NoError(t, err)
		_, err = uuid.Parse(participantID)
		require.NoError(t, err)

		result := ValidateToken(token)
		assert.True(t, result.Valid)
		assert.Equal(t, participantID, result.ParticipantID)
		assert.Equal(t, GrantTypeParticipant, result.GrantType)
		assert.True(t, result.HasScope(ScopePlay))
		assert.WithinDuration(t, time.Now().Add(time.Hour), result.ExpiresAt, 5*time.Second)
	})

	t.Run("requested participant", func(t *testing.T) {
		id := uuid.New().String()
		token, participantID, err := IssueParticipantToken(id, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, id, participantID)
		assert.Equal(t, id, ValidateToken(token).ParticipantID)
	})

	t.Run("invalid participant id", func(t *testing.T) {
		_, _, err := IssueParticipantToken("not-a-uuid", time.Hour)
		assert.ErrorIs(t, err, ErrInvalidParticipant)
	})

	t.Run("expired token", func(t *testing.T) {
		token, _, err := IssueParticipantToken("", -time.Minute)
		require.NoError(t, err)
		assert.False(t, ValidateToken(token).Valid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := IssueParticipantToken("", time.Hour)
		require.NoError(t, err)

		restoreOther := config.SetJWTSecret([]byte("other-secret"))
		defer restoreOther()
		assert.False(t, ValidateToken(token).Valid)
	})

	t.Run("wrong grant type", func(t *testing.T) {
		claims := CustomClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.New().String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			GrantType: "client_credentials",
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.GetJWTSecret())
		require.NoError(t, err)
		assert.False(t, ValidateToken(token).Valid)
	})

	t.Run("garbage", func(t *testing.T) {
		assert.False(t, ValidateToken("not.a.token").Valid)
	})
}
