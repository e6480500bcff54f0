package usecase

import (
	"errors"
	"fmt"

	"resume-chatbot/internal/integrations/webhook"
)

// ReplyErrorKind classifies a failed forwarding attempt. Each kind maps to one
// fixed user-facing reply.
type ReplyErrorKind string

const (
	ErrorConfigMissing  ReplyErrorKind = "config_missing"
	ErrorTimeout        ReplyErrorKind = "timeout"
	ErrorUpstreamStatus ReplyErrorKind = "upstream_status"
	ErrorUpstreamParse  ReplyErrorKind = "upstream_parse"
	ErrorUnknown        ReplyErrorKind = "unknown"
)

const (
	replyConfigMissing = "I'm sorry, the chat service is not configured. " +
		"Please set the N8N_WEBHOOK_URL environment variable."
	replyTimeout        = "I'm sorry, the request timed out. Please try again."
	replyUpstreamStatus = "I'm sorry, there was an error processing your request. (HTTP %d)"
	replyUpstreamParse  = "I'm sorry, an unexpected error occurred: the chat service returned an unreadable response."
	replyUnknown        = "I'm sorry, an unexpected error occurred: the chat service could not be reached."
)

// errMalformedReply marks a 2xx webhook body that is not valid JSON.
var errMalformedReply = errors.New("usecase: webhook response is not valid JSON")

// ReplyForKind returns the user-facing text for kind. status is only used for
// ErrorUpstreamStatus.
func ReplyForKind(kind ReplyErrorKind, status int) string {
	switch kind {
	case ErrorConfigMissing:
		return replyConfigMissing
	case ErrorTimeout:
		return replyTimeout
	case ErrorUpstreamStatus:
		return fmt.Sprintf(replyUpstreamStatus, status)
	case ErrorUpstreamParse:
		return replyUpstreamParse
	default:
		return replyUnknown
	}
}

// ClassifyError maps a forwarding failure to its kind and, for upstream status
// errors, the HTTP status code.
func ClassifyError(err error) (ReplyErrorKind, int) {
	var statusErr *webhook.HTTPStatusError
	switch {
	case errors.As(err, &statusErr):
		return ErrorUpstreamStatus, statusErr.StatusCode
	case webhook.IsTimeout(err):
		return ErrorTimeout, 0
	case errors.Is(err, errMalformedReply):
		return ErrorUpstreamParse, 0
	default:
		return ErrorUnknown, 0
	}
}
