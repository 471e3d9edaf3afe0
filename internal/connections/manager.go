package connections

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TimeoutConfig holds the various timeout settings for WebSocket connections
type TimeoutConfig struct {
	PongWait   time.Duration
	PingPeriod time.Duration
	WriteWait  time.Duration
}

// DefaultTimeouts provides sensible default timeout values
var DefaultTimeouts = TimeoutConfig{
	PongWait:   60 * time.Second,
	PingPeriod: 54 * time.Second, // (PongWait * 9) / 10
	WriteWait:  10 * time.Second,
}

// Manager tracks open participant WebSocket connections.
type Manager struct {
	mu          sync.RWMutex
	connections map[*websocket.Conn]string
	timeouts    TimeoutConfig
}

func NewManager(timeouts TimeoutConfig) *Manager {
	return &Manager{
		connections: make(map[*websocket.Conn]string),
		timeouts:    timeouts,
	}
}

// AddConnection registers conn for participantID
func (m *Manager) AddConnection(conn *websocket.Conn, participantID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connections[conn] = participantID
}

func (m *Manager) RemoveConnection(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.connections, conn)
}

// GetConnectionCount returns the current number of active connections
func (m *Manager) GetConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// ParticipantConnections returns how many connections participantID holds open
func (m *Manager) ParticipantConnections(participantID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, id := range m.connections {
		if id == participantID {
			count++
		}
	}
	return count
}

func (m *Manager) HasConnection(conn *websocket.Conn) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.connections[conn]
	return exists
}

func (m *Manager) GetTimeouts() TimeoutConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.timeouts
}

func (m *Manager) SetTimeouts(timeouts TimeoutConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeouts = timeouts
}
