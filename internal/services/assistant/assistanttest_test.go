package assistant_test

import (
	"context"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepgram/dictator/internal/services/assistant"
	"github.com/deepgram/dictator/internal/services/assistant/assistanttest"
)

func TestClientAgainstFakeBackend(t *testing.T) {
	ctx := context.Background()
	backend := assistanttest.NewBackend()
	backend.Statuses = []openai.RunStatus{openai.RunStatusQueued, openai.RunStatusInProgress}
	backend.Reply = func(message string) string { return "I give away 30 of " + message }

	c, err := assistant.NewClient(ctx, backend, assistant.Config{
		Model:            "gpt-4o",
		InstructionsPath: "does-not-exist.txt",
		Poll:             assistant.PollConfig{Interval: time.Millisecond, MaxAttempts: 10, Timeout: time.Second},
	})
	require.NoError(t, err)

	reply, err := c.SendMessage(ctx, "100 tokens")
	require.NoError(t, err)
	assert.Equal(t, "I give away 30 of 100 tokens", reply)
	assert.Equal(t, 3, backend.Calls("RetrieveRun"))

	history := backend.Messages(c.ThreadID())
	require.Len(t, history, 2)
	assert.Equal(t, openai.ChatMessageRoleUser, history[0].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, history[1].Role)

	a, err := c.Assistant(ctx)
	require.NoError(t, err)
	assert.Equal(t, assistant.DefaultInstructions, *a.Instructions)
	assert.Equal(t, assistant.DefaultName, *a.Name)
}
