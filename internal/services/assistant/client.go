package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/deepgram/dictator/pkg/logger"
)

const cancelTimeout = 10 * time.Second

// Client holds one remote assistant and at most one remote thread, and
// exchanges single-turn messages with them. Calls are serialised: a
// thread accepts one active run at a time.
type Client struct {
	mu      sync.Mutex
	backend Backend
	poll    PollConfig

	model        string
	name         string
	instructions string

	assistantID string
	threadID    string
}

// Option customises a Client at construction.
type Option func(*Client)

// WithThreadID seeds the client with an existing remote thread.
func WithThreadID(threadID string) Option {
	return func(c *Client) {
		c.threadID = threadID
	}
}

// Reply is the outcome of one exchange.
type Reply struct {
	ThreadID string
	RunID    string
	Text     string
}

// NewClient loads the instructions and provisions the remote assistant:
// the one named by cfg.AssistantID when set, a new one otherwise.
func NewClient(ctx context.Context, backend Backend, cfg Config, opts ...Option) (*Client, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is required", ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model is required", ErrInvalidConfig)
	}

	instructions, err := LoadInstructions(cfg.InstructionsPath)
	if err != nil {
		return nil, err
	}

	name := cfg.Name
	if name == "" {
		name = DefaultName
	}

	c := &Client{
		backend:      backend,
		poll:         cfg.Poll.withDefaults(),
		model:        cfg.Model,
		name:         name,
		instructions: instructions,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.provisionAssistant(ctx, cfg.AssistantID); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Client) provisionAssistant(ctx context.Context, existingID string) error {
	if existingID != "" {
		a, err := c.backend.RetrieveAssistant(ctx, existingID)
		if err != nil {
			return fmt.Errorf("retrieve assistant %s: %w", existingID, err)
		}
		c.assistantID = existingID
		if a.Instructions != nil {
			logger.Debug(logger.ASSISTANT, "Reusing assistant %s with instructions: %s", existingID, *a.Instructions)
		}
		logger.Info(logger.ASSISTANT, "Assistant reused: %s", existingID)
		return nil
	}

	a, err := c.backend.CreateAssistant(ctx, openai.AssistantRequest{
		Model:        c.model,
		Name:         &c.name,
		Instructions: &c.instructions,
	})
	if err != nil {
		return fmt.Errorf("create assistant: %w", err)
	}
	if a.ID == "" {
		return fmt.Errorf("create assistant: response carried no id")
	}

	c.assistantID = a.ID
	logger.Info(logger.ASSISTANT, "Assistant created: %s", a.ID)
	return nil
}

// Fork returns a client bound to the same assistant and instructions but
// holding its own thread. It makes no remote calls.
func (c *Client) Fork(opts ...Option) *Client {
	c.mu.Lock()
	assistantID := c.assistantID
	c.mu.Unlock()

	f := &Client{
		backend:      c.backend,
		poll:         c.poll,
		model:        c.model,
		name:         c.name,
		instructions: c.instructions,
		assistantID:  assistantID,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (c *Client) AssistantID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.assistantID
}

// ThreadID returns the held thread id, empty before the first send.
func (c *Client) ThreadID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.threadID
}

func (c *Client) Instructions() string {
	return c.instructions
}

// Assistant fetches the remote assistant record.
func (c *Client) Assistant(ctx context.Context) (openai.Assistant, error) {
	a, err := c.backend.RetrieveAssistant(ctx, c.AssistantID())
	if err != nil {
		return openai.Assistant{}, fmt.Errorf("retrieve assistant: %w", err)
	}
	return a, nil
}

// EnsureThread returns the held thread id, creating a remote thread on first use.
func (c *Client) EnsureThread(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureThread(ctx)
}

func (c *Client) ensureThread(ctx context.Context) (string, error) {
	if c.threadID != "" {
		return c.threadID, nil
	}

	thread, err := c.backend.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	if thread.ID == "" {
		return "", fmt.Errorf("create thread: response carried no id")
	}

	c.threadID = thread.ID
	logger.Info(logger.ASSISTANT, "New thread created: %s", thread.ID)
	return c.threadID, nil
}

// SendMessage posts message to the thread, runs the assistant and returns
// the text of its reply.
func (c *Client) SendMessage(ctx context.Context, message string) (string, error) {
	reply, err := c.Send(ctx, message)
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}

// Send is SendMessage returning the thread and run ids alongside the text.
func (c *Client) Send(ctx context.Context, message string) (*Reply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	threadID, err := c.ensureThread(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := c.backend.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	}); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	run, err := c.backend.CreateRun(ctx, threadID, openai.RunRequest{AssistantID: c.assistantID})
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	if run.ID == "" {
		return nil, fmt.Errorf("create run: response carried no id")
	}
	logger.Debug(logger.ASSISTANT, "Run %s started on thread %s", run.ID, threadID)

	if _, err := c.waitForRun(ctx, threadID, run); err != nil {
		return nil, err
	}

	text, err := c.latestReply(ctx, threadID, run.ID)
	if err != nil {
		return nil, err
	}

	return &Reply{ThreadID: threadID, RunID: run.ID, Text: text}, nil
}

// waitForRun polls the run until it reaches a terminal status, the attempt
// budget runs out, or the timeout elapses.
func (c *Client) waitForRun(ctx context.Context, threadID string, run openai.Run) (openai.Run, error) {
	pollCtx, cancel := context.WithTimeout(ctx, c.poll.Timeout)
	defer cancel()

	delay := c.poll.Interval
	for attempt := 1; attempt <= c.poll.MaxAttempts; attempt++ {
		current, err := c.backend.RetrieveRun(pollCtx, threadID, run.ID)
		if err != nil {
			if pollCtx.Err() != nil {
				c.cancelRun(ctx, threadID, run.ID)
				return run, fmt.Errorf("%w %s: %w", ErrRunTimeout, run.ID, pollCtx.Err())
			}
			return run, fmt.Errorf("retrieve run %s: %w", run.ID, err)
		}
		if current.ID == "" {
			current.ID = run.ID
		}
		run = current

		switch classify(run.Status) {
		case runCompleted:
			logger.Debug(logger.ASSISTANT, "Run %s completed after %d checks", run.ID, attempt)
			return run, nil
		case runEnded:
			runErr := newRunError(run)
			logger.Warn(logger.ASSISTANT, "Run ended without completing: %v", runErr)
			return run, runErr
		}

		if attempt == c.poll.MaxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-pollCtx.Done():
			timer.Stop()
			c.cancelRun(ctx, threadID, run.ID)
			return run, fmt.Errorf("%w %s after %d checks: %w", ErrRunTimeout, run.ID, attempt, pollCtx.Err())
		case <-timer.C:
		}
		delay = c.poll.next(delay)
	}

	c.cancelRun(ctx, threadID, run.ID)
	return run, fmt.Errorf("%w: run %s still %s after %d checks", ErrPollExhausted, run.ID, run.Status, c.poll.MaxAttempts)
}

// cancelRun asks the service to stop a run we gave up on, so the thread
// can accept new messages. Failures are only logged.
func (c *Client) cancelRun(ctx context.Context, threadID, runID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cancelTimeout)
	defer cancel()

	if _, err := c.backend.CancelRun(ctx, threadID, runID); err != nil {
		logger.Warn(logger.ASSISTANT, "Failed to cancel run %s: %v", runID, err)
		return
	}
	logger.Info(logger.ASSISTANT, "Cancelled run %s", runID)
}

func (c *Client) latestReply(ctx context.Context, threadID, runID string) (string, error) {
	limit := 1
	order := "desc"

	list, err := c.backend.ListMessage(ctx, threadID, &limit, &order, nil, nil, &runID)
	if err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}
	if len(list.Messages) == 0 {
		return "", ErrNoReply
	}

	latest := list.Messages[0]
	if latest.Role != openai.ChatMessageRoleAssistant {
		return "", fmt.Errorf("%w: newest message has role %q", ErrNoReply, latest.Role)
	}
	if len(latest.Content) == 0 || latest.Content[0].Text == nil {
		return "", fmt.Errorf("%w: message %s has no text content", ErrNoReply, latest.ID)
	}

	return latest.Content[0].Text.Value, nil
}
