package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"resume-chatbot/internal/domain"
	"resume-chatbot/internal/integrations/webhook"
)

// MaxForwardedHistory caps how many of the most recent history entries are
// sent to the webhook.
const MaxForwardedHistory = 10

// Poster sends one JSON payload to the automation webhook.
type Poster interface {
	Post(ctx context.Context, payload any) ([]byte, error)
}

type ChatInput struct {
	Message   string
	SessionID string
	History   []domain.ChatMessage
}

// webhookPayload is the body the n8n workflow expects.
type webhookPayload struct {
	SessionID  string               `json:"sessionId"`
	Question   string               `json:"question"`
	ResumeText string               `json:"resume_text"`
	History    []domain.ChatMessage `json:"history"`
}

// ChatService forwards chat turns to the webhook and turns every upstream
// outcome into text that can be shown to the user.
type ChatService struct {
	webhook Poster
	resume  string
	log     *slog.Logger
}

// NewChatService builds a ChatService. A nil poster means no webhook is
// configured; Reply then answers with the configuration message.
func NewChatService(p Poster, resumeText string, log *slog.Logger) (*ChatService, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, errors.New("usecase: resume text must not be empty")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ChatService{
		webhook: p,
		resume:  resumeText,
		log:     log.With("component", "usecase.chat"),
	}, nil
}

// Reply returns the webhook's answer for one chat turn. Upstream failures are
// reported as apologetic replies with a nil error; an error is returned only
// when the payload cannot be built, before anything is sent.
func (s *ChatService) Reply(ctx context.Context, in ChatInput) (string, error) {
	if s.webhook == nil {
		s.log.Warn("webhook url not configured", "session_id", in.SessionID)
		return ReplyForKind(ErrorConfigMissing, 0), nil
	}

	raw, err := s.webhook.Post(ctx, s.buildPayload(in))
	if err == nil {
		var reply string
		reply, err = extractReply(raw)
		if err == nil {
			s.log.Info("received webhook reply", "session_id", in.SessionID)
			return reply, nil
		}
	}

	var encErr *webhook.EncodeError
	if errors.As(err, &encErr) {
		return "", err
	}

	kind, status := ClassifyError(err)
	s.log.Error("webhook call failed",
		"session_id", in.SessionID,
		"kind", string(kind),
		"status", status,
		"err", err,
	)
	return ReplyForKind(kind, status), nil
}

func (s *ChatService) buildPayload(in ChatInput) webhookPayload {
	return webhookPayload{
		SessionID:  in.SessionID,
		Question:   in.Message,
		ResumeText: s.resume,
		History:    recentHistory(in.History, MaxForwardedHistory),
	}
}

// recentHistory returns the last limit entries of history in their original
// order. The result is never nil so it encodes as an empty JSON array.
func recentHistory(history []domain.ChatMessage, limit int) []domain.ChatMessage {
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make([]domain.ChatMessage, len(history))
	copy(out, history)
	return out
}
