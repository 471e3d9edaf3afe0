package assistant

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultName is the display name given to newly created assistants.
	DefaultName = "Dictator Game Assistant"

	// DefaultInstructions replaces a missing instructions file.
	DefaultInstructions = "You are a helpful AI assistant."
)

// Backend is the part of the OpenAI Assistants API the client drives.
// *openai.Client satisfies it.
type Backend interface {
	CreateAssistant(ctx context.Context, request openai.AssistantRequest) (openai.Assistant, error)
	RetrieveAssistant(ctx context.Context, assistantID string) (openai.Assistant, error)
	CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error)
	CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error)
	CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error)
	RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error)
	CancelRun(ctx context.Context, threadID string, runID string) (openai.Run, error)
	ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error)
}

var _ Backend = (*openai.Client)(nil)

// Config configures a Client.
type Config struct {
	// APIKey is consumed by whoever builds the Backend.
	APIKey string
	Model  string

	InstructionsPath string
	Name             string

	// AssistantID reuses an existing remote assistant instead of creating one.
	AssistantID string

	Poll PollConfig
}
