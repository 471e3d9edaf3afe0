package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	v1game "github.com/deepgram/dictator/internal/api/v1/handlers/game"
	"github.com/deepgram/dictator/internal/api/v1/middleware"
	"github.com/deepgram/dictator/internal/connections"
	"github.com/deepgram/dictator/internal/services/dictator"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
)

// conn serialises writes; the ping ticker and the message loop both write.
type conn struct {
	mu       sync.Mutex
	ws       *websocket.Conn
	timeouts connections.TimeoutConfig
}

func (c *conn) send(resp AssistantResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(c.timeouts.WriteWait))
	return c.ws.WriteJSON(resp)
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(c.timeouts.WriteWait))
}

// HandleGameWebSocket plays the game over a WebSocket. Each participant frame
// is acknowledged with a streaming response, then answered with a complete
// or error response.
func HandleGameWebSocket(game *dictator.Service, manager *connections.Manager, w http.ResponseWriter, r *http.Request) {
	participantID := middleware.GetParticipantID(r)

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("participant_id", participantID).Msg("WebSocket upgrade failed")
		return
	}

	manager.AddConnection(ws, participantID)
	defer func() {
		manager.RemoveConnection(ws)
		ws.Close()
	}()

	c := &conn{ws: ws, timeouts: manager.GetTimeouts()}

	log.Info().
		Str("participant_id", participantID).
		Int("active_connections", manager.GetConnectionCount()).
		Msg("Participant connected")

	ws.SetReadDeadline(time.Now().Add(c.timeouts.PongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(c.timeouts.PongWait))
	})

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(c.timeouts.PingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := c.ping(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Reading happens on its own goroutine so pongs keep extending the read
	// deadline while a turn is being played.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	incoming := make(chan UserMessage, 8)
	go func() {
		defer close(incoming)
		defer cancel()

		for {
			var msg UserMessage
			if err := ws.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("participant_id", participantID).Msg("Unexpected WebSocket closure")
				}
				return
			}
			ws.SetReadDeadline(time.Now().Add(c.timeouts.PongWait))

			select {
			case incoming <- msg:
			case <-done:
				return
			}
		}
	}()

	for msg := range incoming {
		if err := playTurn(ctx, game, c, participantID, msg); err != nil {
			return
		}
	}
}

// playTurn acknowledges msg, plays it and writes the outcome. It returns an
// error only when the connection can no longer be written to.
func playTurn(ctx context.Context, game *dictator.Service, c *conn, participantID string, msg UserMessage) error {
	requestID := uuid.New().String()
	if err := c.send(AssistantResponse{
		RequestID: requestID,
		MessageID: msg.MessageID,
		Status:    StatusStreaming,
	}); err != nil {
		return err
	}

	turn, err := game.Play(ctx, participantID, msg.Content)
	if err != nil {
		_, message := v1game.ErrorStatus(err)
		log.Error().
			Err(err).
			Str("request_id", requestID).
			Str("participant_id", participantID).
			Msg("Failed to play turn over WebSocket")
		return c.send(AssistantResponse{
			RequestID: requestID,
			MessageID: msg.MessageID,
			Content:   message,
			Status:    StatusError,
		})
	}

	return c.send(AssistantResponse{
		RequestID: requestID,
		MessageID: msg.MessageID,
		ThreadID:  turn.ThreadID,
		Content:   turn.Content,
		Status:    StatusComplete,
	})
}
