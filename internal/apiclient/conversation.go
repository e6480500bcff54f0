package apiclient

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"resume-chatbot/internal/domain"
)

// historyWindow matches what the server forwards upstream.
const historyWindow = 10

// QuickQuestions are offered to new users before their first message.
var QuickQuestions = []string{
	"What's your experience with Python?",
	"Tell me about your projects",
	"What are your main skills?",
}

type chatter interface {
	Chat(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error)
}

// Conversation keeps one client-side chat session: a session id generated once
// and the ordered message history.
type Conversation struct {
	api     chatter
	baseURL string

	mu        sync.Mutex
	sessionID string
	history   []domain.ChatMessage
}

func NewConversation(c *Client) *Conversation {
	return &Conversation{
		api:       c,
		baseURL:   c.BaseURL(),
		sessionID: newSessionID(),
	}
}

func (c *Conversation) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// History returns a copy of the messages exchanged so far.
func (c *Conversation) History() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ChatMessage, len(c.history))
	copy(out, c.history)
	return out
}

// Ask sends text with the recent history and records both turns. When the API
// cannot be reached the recorded reply is a fallback message and the error is
// returned alongside it.
func (c *Conversation) Ask(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("apiclient: message must not be empty")
	}

	c.mu.Lock()
	req := domain.ChatRequest{
		Message:   text,
		SessionID: c.sessionID,
		History:   recent(c.history, historyWindow),
	}
	c.history = append(c.history, domain.ChatMessage{Role: domain.RoleUser, Content: text})
	c.mu.Unlock()

	reply, err := c.api.Chat(ctx, req)
	answer := reply.Reply
	if err != nil {
		answer = fmt.Sprintf("Sorry, I couldn't process your request. Please make sure the backend server is running on %s", c.baseURL)
	}

	c.mu.Lock()
	c.history = append(c.history, domain.ChatMessage{Role: domain.RoleAssistant, Content: answer})
	c.mu.Unlock()
	return answer, err
}

// Reset clears the history and starts a new session.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
	c.sessionID = newSessionID()
}

func recent(history []domain.ChatMessage, n int) []domain.ChatMessage {
	if len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]domain.ChatMessage, len(history))
	copy(out, history)
	return out
}

var newSessionID = func() string {
	return uuid.NewString()
}
