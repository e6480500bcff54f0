package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"resume-chatbot/internal/domain"
)

// LambdaHandler serves the API routes from API Gateway proxy events.
type LambdaHandler struct {
	h    *Handler
	cors corsPolicy
}

func NewLambdaHandler(h *Handler, corsOrigins []string) *LambdaHandler {
	return &LambdaHandler{h: h, cors: newCORSPolicy(corsOrigins)}
}

// Handle routes a single API Gateway proxy request. Errors are always
// expressed as HTTP responses so the returned error is nil.
func (l *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	reqID := headerValue(req.Headers, requestIDHeader)
	if reqID == "" {
		reqID = newUUID()
	}
	headers := map[string]string{
		"Content-Type":  "application/json",
		requestIDHeader: reqID,
	}
	for k, v := range l.cors.headers(headerValue(req.Headers, "Origin")) {
		headers[k] = v
	}

	path := strings.TrimRight(req.Path, "/")
	var (
		status int
		body   any
	)
	switch {
	case isPreflight(req.HTTPMethod):
		return events.APIGatewayProxyResponse{StatusCode: http.StatusNoContent, Headers: headers}, nil
	case req.HTTPMethod == http.MethodGet && path == "/api/health":
		status, body = l.h.health()
	case req.HTTPMethod == http.MethodPost && path == "/api/chat":
		raw := []byte(req.Body)
		if req.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(req.Body)
			if err != nil {
				status, body = http.StatusBadRequest, domain.ErrorResponse{Detail: "could not read request body"}
				break
			}
			raw = decoded
		}
		status, body = l.h.serveChat(ctx, reqID, raw)
	default:
		status, body = http.StatusNotFound, domain.ErrorResponse{Detail: "Not Found"}
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		l.h.log.Error("encode response", "request_id", reqID, "err", err)
		status = http.StatusInternalServerError
		encoded = []byte(`{"detail":"` + internalErrorReply + `"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       string(encoded),
	}, nil
}

// headerValue looks a header up case-insensitively; API Gateway passes
// headers through as the client sent them.
func headerValue(headers map[string]string, key string) string {
	if v, ok := headers[key]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
