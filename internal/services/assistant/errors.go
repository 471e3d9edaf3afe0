package assistant

import (
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

var (
	ErrInvalidConfig = errors.New("invalid assistant config")
	ErrEmptyMessage  = errors.New("message is empty")
	ErrNoReply       = errors.New("run completed without an assistant reply")
	ErrRunFailed     = errors.New("run ended without completing")
	ErrPollExhausted = errors.New("run did not finish within the poll attempt limit")
	ErrRunTimeout    = errors.New("timed out waiting for run")
)

// RunError reports a run that reached a terminal status other than completed.
type RunError struct {
	RunID   string
	Status  openai.RunStatus
	Code    string
	Message string
}

func (e *RunError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("run %s %s: %s: %s", e.RunID, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("run %s %s", e.RunID, e.Status)
}

func (e *RunError) Is(target error) bool {
	return target == ErrRunFailed
}

func newRunError(run openai.Run) *RunError {
	e := &RunError{RunID: run.ID, Status: run.Status}
	if run.LastError != nil {
		e.Code = string(run.LastError.Code)
		e.Message = run.LastError.Message
	}
	return e
}
