package assistant

import (
	"time"

	"github.com/sashabaranov/go-openai"
)

// PollConfig bounds the wait for a run to finish.
type PollConfig struct {
	// Interval is the delay before the second status check.
	Interval time.Duration
	// MaxInterval caps the backoff delay.
	MaxInterval time.Duration
	// Multiplier grows the delay after each check; 1 gives a fixed interval.
	Multiplier float64
	// MaxAttempts is the number of status checks before giving up.
	MaxAttempts int
	// Timeout bounds the whole wait.
	Timeout time.Duration
}

func DefaultPollConfig() PollConfig {
	return PollConfig{
		Interval:    500 * time.Millisecond,
		MaxInterval: 5 * time.Second,
		Multiplier:  1.5,
		MaxAttempts: 120,
		Timeout:     2 * time.Minute,
	}
}

// withDefaults fills zero fields from DefaultPollConfig.
func (p PollConfig) withDefaults() PollConfig {
	d := DefaultPollConfig()
	if p.Interval <= 0 {
		p.Interval = d.Interval
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = d.MaxInterval
	}
	if p.MaxInterval < p.Interval {
		p.MaxInterval = p.Interval
	}
	if p.Multiplier < 1 {
		p.Multiplier = d.Multiplier
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.Timeout <= 0 {
		p.Timeout = d.Timeout
	}
	return p
}

func (p PollConfig) next(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * p.Multiplier)
	if next > p.MaxInterval {
		return p.MaxInterval
	}
	return next
}

// runOutcome classifies a run status.
type runOutcome int

const (
	runPending runOutcome = iota
	runCompleted
	runEnded
)

func classify(status openai.RunStatus) runOutcome {
	switch status {
	case openai.RunStatusCompleted:
		return runCompleted
	case openai.RunStatusQueued, openai.RunStatusInProgress, openai.RunStatusCancelling:
		return runPending
	case openai.RunStatusFailed, openai.RunStatusCancelled, openai.RunStatusExpired,
		openai.RunStatusIncomplete, openai.RunStatusRequiresAction:
		return runEnded
	default:
		// Unknown statuses are treated as still running; MaxAttempts bounds them.
		return runPending
	}
}
