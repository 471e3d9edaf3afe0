package websocket

// UserMessage is a frame sent by the participant
type UserMessage struct {
	Content   string `json:"content"`
	MessageID string `json:"message_id,omitempty"`
}

// AssistantResponse is a frame sent back to the participant
type AssistantResponse struct {
	RequestID string `json:"request_id"`
	MessageID string `json:"message_id,omitempty"`
	ThreadID  string `json:"thread_id,omitempty"`
	Content   string `json:"content"`
	Status    string `json:"status"` // "streaming", "complete", or "error"
}

const (
	StatusStreaming = "streaming"
	StatusComplete  = "complete"
	StatusError     = "error"
)
