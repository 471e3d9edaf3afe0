// Package assistanttest provides an in-memory assistant.Backend for tests.
package assistanttest

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/sashabaranov/go-openai"
)

// Backend fakes the Assistants API. Runs report the statuses in Statuses,
// one per RetrieveRun call, and then completed; on completion the Reply
// text is appended to the thread as an assistant message.
type Backend struct {
	mu sync.Mutex

	// Reply builds the assistant answer from the latest user message.
	Reply func(message string) string
	// Statuses are reported before a run completes.
	Statuses []openai.RunStatus

	assistants map[string]openai.Assistant
	threads    map[string][]openai.Message
	runs       map[string]*run
	calls      map[string]int
	seq        int
}

type run struct {
	openai.Run
	polls   int
	message string
}

func NewBackend() *Backend {
	return &Backend{
		Reply:      func(message string) string { return "reply: " + message },
		assistants: map[string]openai.Assistant{},
		threads:    map[string][]openai.Message{},
		runs:       map[string]*run{},
		calls:      map[string]int{},
	}
}

// Calls returns how many times method was invoked.
func (b *Backend) Calls(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method]
}

// Messages returns a copy of the thread history, oldest first.
func (b *Backend) Messages(threadID string) []openai.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]openai.Message(nil), b.threads[threadID]...)
}

func (b *Backend) nextID(prefix string) string {
	b.seq++
	return fmt.Sprintf("%s_%d", prefix, b.seq)
}

func notFound(kind, id string) error {
	return &openai.APIError{
		HTTPStatusCode: http.StatusNotFound,
		Message:        fmt.Sprintf("No %s found with id '%s'.", kind, id),
		Type:           "invalid_request_error",
	}
}

func (b *Backend) CreateAssistant(_ context.Context, request openai.AssistantRequest) (openai.Assistant, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["CreateAssistant"]++

	a := openai.Assistant{
		ID:           b.nextID("asst"),
		Object:       "assistant",
		Model:        request.Model,
		Name:         request.Name,
		Instructions: request.Instructions,
	}
	b.assistants[a.ID] = a
	return a, nil
}

func (b *Backend) RetrieveAssistant(_ context.Context, assistantID string) (openai.Assistant, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["RetrieveAssistant"]++

	a, ok := b.assistants[assistantID]
	if !ok {
		return openai.Assistant{}, notFound("assistant", assistantID)
	}
	return a, nil
}

func (b *Backend) CreateThread(_ context.Context, _ openai.ThreadRequest) (openai.Thread, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["CreateThread"]++

	t := openai.Thread{ID: b.nextID("thread"), Object: "thread"}
	b.threads[t.ID] = nil
	return t, nil
}

func (b *Backend) CreateMessage(_ context.Context, threadID string, request openai.MessageRequest) (openai.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["CreateMessage"]++

	if _, ok := b.threads[threadID]; !ok {
		return openai.Message{}, notFound("thread", threadID)
	}

	m := textMessage(b.nextID("msg"), threadID, request.Role, request.Content, nil)
	b.threads[threadID] = append(b.threads[threadID], m)
	return m, nil
}

func (b *Backend) CreateRun(_ context.Context, threadID string, request openai.RunRequest) (openai.Run, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["CreateRun"]++

	history, ok := b.threads[threadID]
	if !ok {
		return openai.Run{}, notFound("thread", threadID)
	}
	if _, ok := b.assistants[request.AssistantID]; !ok {
		return openai.Run{}, notFound("assistant", request.AssistantID)
	}

	var latest string
	if len(history) > 0 {
		latest = history[len(history)-1].Content[0].Text.Value
	}

	r := &run{
		Run: openai.Run{
			ID:          b.nextID("run"),
			Object:      "thread.run",
			ThreadID:    threadID,
			AssistantID: request.AssistantID,
			Status:      openai.RunStatusQueued,
		},
		message: latest,
	}
	b.runs[r.ID] = r
	return r.Run, nil
}

func (b *Backend) RetrieveRun(_ context.Context, threadID string, runID string) (openai.Run, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["RetrieveRun"]++

	r, ok := b.runs[runID]
	if !ok || r.ThreadID != threadID {
		return openai.Run{}, notFound("run", runID)
	}

	switch r.Status {
	case openai.RunStatusCompleted, openai.RunStatusFailed, openai.RunStatusCancelled,
		openai.RunStatusExpired, openai.RunStatusIncomplete, openai.RunStatusRequiresAction:
		return r.Run, nil
	}

	if r.polls < len(b.Statuses) {
		r.Status = b.Statuses[r.polls]
	} else {
		r.Status = openai.RunStatusCompleted
	}
	r.polls++

	if r.Status == openai.RunStatusCompleted {
		runID := r.ID
		m := textMessage(b.nextID("msg"), threadID, openai.ChatMessageRoleAssistant, b.Reply(r.message), &runID)
		b.threads[threadID] = append(b.threads[threadID], m)
	}
	return r.Run, nil
}

func (b *Backend) CancelRun(_ context.Context, threadID string, runID string) (openai.Run, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["CancelRun"]++

	r, ok := b.runs[runID]
	if !ok || r.ThreadID != threadID {
		return openai.Run{}, notFound("run", runID)
	}
	r.Status = openai.RunStatusCancelled
	return r.Run, nil
}

func (b *Backend) ListMessage(_ context.Context, threadID string, limit *int, order *string, _ *string, _ *string, runID *string) (openai.MessagesList, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["ListMessage"]++

	history, ok := b.threads[threadID]
	if !ok {
		return openai.MessagesList{}, notFound("thread", threadID)
	}

	var out []openai.Message
	for _, m := range history {
		if runID != nil && (m.RunID == nil || *m.RunID != *runID) {
			continue
		}
		out = append(out, m)
	}

	if order == nil || *order == "desc" {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	if limit != nil && *limit < len(out) {
		out = out[:*limit]
	}

	return openai.MessagesList{Object: "list", Messages: out}, nil
}

func textMessage(id, threadID, role, text string, runID *string) openai.Message {
	return openai.Message{
		ID:       id,
		Object:   "thread.message",
		ThreadID: threadID,
		Role:     role,
		RunID:    runID,
		Content: []openai.MessageContent{{
			Type: "text",
			Text: &openai.MessageText{Value: text},
		}},
	}
}
