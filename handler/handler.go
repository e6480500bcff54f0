package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"resume-chatbot/internal/domain"
	"resume-chatbot/internal/usecase"
)

const (
	healthyStatus      = "healthy"
	internalErrorReply = "Failed to get response: internal error"
	requestIDHeader    = "X-Request-Id"
)

// ChatResponder produces the reply for one chat turn.
type ChatResponder interface {
	Reply(ctx context.Context, in usecase.ChatInput) (string, error)
}

// Handler implements the /api routes independently of the transport. The gin
// router and the Lambda adapter both delegate to it.
type Handler struct {
	chat ChatResponder
	log  *slog.Logger
}

func NewHandler(chat ChatResponder, log *slog.Logger) (*Handler, error) {
	if chat == nil {
		return nil, errors.New("handler: chat responder must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{chat: chat, log: log.With("component", "handler")}, nil
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func (h *Handler) health() (int, any) {
	return http.StatusOK, domain.HealthResponse{Status: healthyStatus}
}

// serveChat validates body, asks the responder for a reply and maps the outcome to
// a status and response body. Invalid requests never reach the responder.
func (h *Handler) serveChat(ctx context.Context, requestID string, body []byte) (int, any) {
	var req domain.ChatRequest
	if err := binding.JSON.BindBody(body, &req); err != nil {
		return http.StatusUnprocessableEntity, domain.ErrorResponse{Detail: validationDetail(err)}
	}

	reply, err := h.reply(ctx, usecase.ChatInput{
		Message:   req.Message,
		SessionID: req.SessionID,
		History:   req.History,
	})
	if err != nil {
		h.log.Error("chat error", "request_id", requestID, "session_id", req.SessionID, "err", err)
		return http.StatusInternalServerError, domain.ErrorResponse{Detail: internalErrorReply}
	}
	return http.StatusOK, domain.NewChatResponse(reply)
}

func (h *Handler) reply(ctx context.Context, in usecase.ChatInput) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler: chat responder panic: %v", r)
		}
	}()
	return h.chat.Reply(ctx, in)
}

func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body: " + err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		switch fe.Tag() {
		case "required", "min":
			parts = append(parts, field+" must not be empty")
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

var newUUID = func() string {
	return uuid.NewString()
}
