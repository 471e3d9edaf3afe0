package dictator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/deepgram/dictator/internal/services/assistant"
	"github.com/deepgram/dictator/internal/services/session"
	"github.com/deepgram/dictator/pkg/logger"
)

var ErrMissingParticipant = errors.New("participant id is required")

// Turn is the result of one participant exchange.
type Turn struct {
	ParticipantID string `json:"participant_id"`
	ThreadID      string `json:"thread_id"`
	RunID         string `json:"run_id"`
	Turn          int    `json:"turn"`
	Content       string `json:"content"`
}

// Service runs the game for many participants against one shared
// assistant. Each participant gets an assistant.Client holding their own
// thread.
type Service struct {
	root        *assistant.Client
	store       session.Store
	assistantID string

	mu           sync.Mutex
	participants map[string]*participant
}

type participant struct {
	mu     sync.Mutex
	client *assistant.Client
}

// NewService provisions the shared assistant described by cfg.
func NewService(ctx context.Context, backend assistant.Backend, cfg assistant.Config, store session.Store) (*Service, error) {
	if store == nil {
		store = session.NewMemoryStore()
	}

	root, err := assistant.NewClient(ctx, backend, cfg)
	if err != nil {
		return nil, fmt.Errorf("provision assistant: %w", err)
	}

	logger.Info(logger.DICTATOR, "Dictator game ready with assistant %s", root.AssistantID())

	return &Service{
		root:         root,
		store:        store,
		assistantID:  root.AssistantID(),
		participants: make(map[string]*participant),
	}, nil
}

func (s *Service) AssistantID() string {
	return s.assistantID
}

// lockParticipant returns the participant's entry with its mutex held. An
// entry removed by Reset while waiting is never returned.
func (s *Service) lockParticipant(participantID string) *participant {
	for {
		s.mu.Lock()
		p, ok := s.participants[participantID]
		if !ok {
			p = &participant{}
			s.participants[participantID] = p
		}
		s.mu.Unlock()

		p.mu.Lock()

		s.mu.Lock()
		current := s.participants[participantID]
		s.mu.Unlock()
		if current == p {
			return p
		}
		p.mu.Unlock()
	}
}

// Participants returns the number of participants with live state.
func (s *Service) Participants() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.participants)
}

// Play sends message on behalf of participantID and returns the reply.
// Exchanges for one participant run one at a time.
func (s *Service) Play(ctx context.Context, participantID, message string) (*Turn, error) {
	if participantID == "" {
		return nil, ErrMissingParticipant
	}

	p := s.lockParticipant(participantID)
	defer p.mu.Unlock()

	sess, err := s.store.Get(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if p.client == nil {
		var opts []assistant.Option
		if sess != nil && sess.ThreadID != "" && sess.AssistantID == s.assistantID {
			logger.Debug(logger.DICTATOR, "Resuming thread %s for participant %s", sess.ThreadID, participantID)
			opts = append(opts, assistant.WithThreadID(sess.ThreadID))
		}

		p.client = s.root.Fork(opts...)
	}

	reply, err := p.client.Send(ctx, message)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if sess == nil || sess.ThreadID != reply.ThreadID {
		sess = &session.Session{
			ParticipantID: participantID,
			AssistantID:   s.assistantID,
			ThreadID:      reply.ThreadID,
			CreatedAt:     now,
		}
	}
	sess.Turns++
	sess.UpdatedAt = now

	if err := s.store.Set(ctx, sess); err != nil {
		logger.Error(logger.DICTATOR, "Failed to save session for participant %s: %v", participantID, err)
	}

	return &Turn{
		ParticipantID: participantID,
		ThreadID:      reply.ThreadID,
		RunID:         reply.RunID,
		Turn:          sess.Turns,
		Content:       reply.Text,
	}, nil
}

// Reset forgets the participant's thread; the next message starts a new one.
func (s *Service) Reset(ctx context.Context, participantID string) error {
	if participantID == "" {
		return ErrMissingParticipant
	}

	p := s.lockParticipant(participantID)
	defer p.mu.Unlock()

	// The stored session goes first so a new entry cannot resume it.
	err := s.store.Delete(ctx, participantID)

	p.client = nil
	s.mu.Lock()
	delete(s.participants, participantID)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	logger.Info(logger.DICTATOR, "Session reset for participant %s", participantID)
	return nil
}
