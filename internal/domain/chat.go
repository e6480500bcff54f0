package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one prior conversation turn as sent by the client and
// forwarded to the webhook.
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message   string        `json:"message" binding:"required,min=1"`
	SessionID string        `json:"sessionId" binding:"required,min=1"`
	History   []ChatMessage `json:"history" binding:"omitempty,dive"`
}

type ChatResponse struct {
	Reply     string    `json:"reply"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChatResponse stamps reply with the current UTC time.
func NewChatResponse(reply string) ChatResponse {
	return ChatResponse{Reply: reply, Timestamp: time.Now().UTC()}
}

type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body returned with 4xx/5xx statuses.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
