package dictator

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepgram/dictator/internal/services/assistant"
	"github.com/deepgram/dictator/internal/services/assistant/assistanttest"
	"github.com/deepgram/dictator/internal/services/session"
)

func testConfig(t *testing.T) assistant.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "instructions.txt")
	require.NoError(t, os.WriteFile(path, []byte("You are the dictator. Split 100 tokens."), 0o600))

	return assistant.Config{
		Model:            "gpt-4o",
		InstructionsPath: path,
		Poll:             assistant.PollConfig{Interval: time.Millisecond, MaxAttempts: 10, Timeout: time.Second},
	}
}

func TestNewServiceProvisionsOneAssistant(t *testing.T) {
	backend := assistanttest.NewBackend()

	svc, err := NewService(context.Background(), backend, testConfig(t), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, svc.AssistantID())
	assert.Equal(t, 1, backend.Calls("CreateAssistant"))
}

func TestNewServiceReusesConfiguredAssistant(t *testing.T) {
	backend := assistanttest.NewBackend()
	existing, err := backend.CreateAssistant(context.Background(), openai.AssistantRequest{Model: "gpt-4o"})
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.AssistantID = existing.ID

	svc, err := NewService(context.Background(), backend, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, svc.AssistantID())
	assert.Equal(t, 1, backend.Calls("CreateAssistant"))
}

func TestPlay(t *testing.T) {
	ctx := context.Background()
	backend := assistanttest.NewBackend()
	store := session.NewMemoryStore()

	svc, err := NewService(ctx, backend, testConfig(t), store)
	require.NoError(t, err)

	first, err := svc.Play(ctx, "p-1", "How do you split 100 tokens?")
	require.NoError(t, err)
	assert.Equal(t, "reply: How do you split 100 tokens?", first.Content)
	assert.Equal(t, 1, first.Turn)
	assert.NotEmpty(t, first.RunID)

	second, err := svc.Play(ctx, "p-1", "Why?")
	require.NoError(t, err)
	assert.Equal(t, first.ThreadID, second.ThreadID, "a participant keeps one thread")
	assert.Equal(t, 2, second.Turn)

	other, err := svc.Play(ctx, "p-2", "Hello")
	require.NoError(t, err)
	assert.NotEqual(t, first.ThreadID, other.ThreadID, "participants get separate threads")

	sess, err := store.Get(ctx, "p-1")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, first.ThreadID, sess.ThreadID)
	assert.Equal(t, svc.AssistantID(), sess.AssistantID)
	assert.Equal(t, 2, sess.Turns)

	assert.Len(t, backend.Messages(first.ThreadID), 4)
	assert.Equal(t, 1, backend.Calls("CreateAssistant"))
}

func TestPlayResumesStoredThread(t *testing.T) {
	ctx := context.Background()
	backend := assistanttest.NewBackend()
	store := session.NewMemoryStore()
	cfg := testConfig(t)

	svc, err := NewService(ctx, backend, cfg, store)
	require.NoError(t, err)
	first, err := svc.Play(ctx, "p-1", "Round one")
	require.NoError(t, err)

	// A second instance sharing the store and assistant picks the thread up.
	cfg.AssistantID = svc.AssistantID()
	restarted, err := NewService(ctx, backend, cfg, store)
	require.NoError(t, err)

	next, err := restarted.Play(ctx, "p-1", "Round two")
	require.NoError(t, err)
	assert.Equal(t, first.ThreadID, next.ThreadID)
	assert.Equal(t, 2, next.Turn)
	assert.Equal(t, 1, backend.Calls("CreateThread"))
}

func TestPlayErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing participant", func(t *testing.T) {
		svc, err := NewService(ctx, assistanttest.NewBackend(), testConfig(t), nil)
		require.NoError(t, err)

		_, err = svc.Play(ctx, "", "hi")
		assert.ErrorIs(t, err, ErrMissingParticipant)
	})

	t.Run("empty message", func(t *testing.T) {
		svc, err := NewService(ctx, assistanttest.NewBackend(), testConfig(t), nil)
		require.NoError(t, err)

		_, err = svc.Play(ctx, "p-1", "  ")
		assert.ErrorIs(t, err, assistant.ErrEmptyMessage)
	})

	t.Run("failed run", func(t *testing.T) {
		backend := assistanttest.NewBackend()
		backend.Statuses = []openai.RunStatus{openai.RunStatusInProgress, openai.RunStatusFailed}
		store := session.NewMemoryStore()

		svc, err := NewService(ctx, backend, testConfig(t), store)
		require.NoError(t, err)

		_, err = svc.Play(ctx, "p-1", "Split the pot.")
		assert.ErrorIs(t, err, assistant.ErrRunFailed)

		sess, err := store.Get(ctx, "p-1")
		require.NoError(t, err)
		assert.Nil(t, sess, "failed turns are not recorded")
	})
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	backend := assistanttest.NewBackend()
	store := session.NewMemoryStore()

	svc, err := NewService(ctx, backend, testConfig(t), store)
	require.NoError(t, err)

	first, err := svc.Play(ctx, "p-1", "Round one")
	require.NoError(t, err)

	assert.Equal(t, 1, svc.Participants())

	require.NoError(t, svc.Reset(ctx, "p-1"))
	assert.Zero(t, svc.Participants(), "reset drops the participant entry")
	sess, err := store.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Nil(t, sess)

	next, err := svc.Play(ctx, "p-1", "Fresh start")
	require.NoError(t, err)
	assert.NotEqual(t, first.ThreadID, next.ThreadID)
	assert.Equal(t, 1, next.Turn)

	assert.ErrorIs(t, svc.Reset(ctx, ""), ErrMissingParticipant)
}

func TestPlayReusesProvisionedAssistant(t *testing.T) {
	ctx := context.Background()
	backend := assistanttest.NewBackend()

	svc, err := NewService(ctx, backend, testConfig(t), nil)
	require.NoError(t, err)

	for _, participant := range []string{"p-1", "p-2", "p-3"} {
		_, err := svc.Play(ctx, participant, "hello")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, backend.Calls("CreateAssistant"))
	assert.Zero(t, backend.Calls("RetrieveAssistant"), "participant clients are not re-verified")
}

func TestPlayAndResetConcurrently(t *testing.T) {
	ctx := context.Background()
	backend := assistanttest.NewBackend()

	svc, err := NewService(ctx, backend, testConfig(t), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Play(ctx, "p-1", "round")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.Reset(ctx, "p-1"))
		}()
	}
	wg.Wait()

	require.NoError(t, svc.Reset(ctx, "p-1"))
	assert.Zero(t, svc.Participants())
}

func TestPlayConcurrentParticipants(t *testing.T) {
	ctx := context.Background()
	backend := assistanttest.NewBackend()

	svc, err := NewService(ctx, backend, testConfig(t), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			participant := []string{"p-1", "p-2", "p-3", "p-4"}[i%4]
			if _, err := svc.Play(ctx, participant, "round"); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	assert.Equal(t, 4, backend.Calls("CreateThread"))
	assert.Equal(t, 20, backend.Calls("CreateRun"))
}
