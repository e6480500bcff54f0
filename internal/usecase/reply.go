package usecase

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// replyFields are checked in order against the webhook's JSON body.
var replyFields = []string{"reply", "text", "output"}

// extractReply picks the reply text out of a webhook body whose schema is not
// under our control. When no candidate field carries a value the whole body is
// rendered instead, so the result is never empty.
func extractReply(body []byte) (string, error) {
	body = bytes.TrimSpace(body)
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: %q", errMalformedReply, truncate(string(body), 64))
	}
	doc := gjson.ParseBytes(body)

	if doc.IsObject() {
		for _, field := range replyFields {
			if text, ok := candidateText(doc.Get(field)); ok {
				return text, nil
			}
		}
	}
	return renderBody(doc), nil
}

func candidateText(v gjson.Result) (string, bool) {
	switch v.Type {
	case gjson.String:
		return v.Str, v.Str != ""
	case gjson.Null, gjson.False:
		return "", false
	case gjson.Number:
		return v.Raw, v.Num != 0
	case gjson.JSON:
		if v.IsArray() && len(v.Array()) == 0 {
			return "", false
		}
		if v.IsObject() && len(v.Map()) == 0 {
			return "", false
		}
		return string(pretty.Ugly([]byte(v.Raw))), true
	default:
		return v.Raw, true
	}
}

func renderBody(doc gjson.Result) string {
	if doc.Type == gjson.String {
		if doc.Str != "" {
			return doc.Str
		}
		return `""`
	}
	return string(pretty.Ugly([]byte(doc.Raw)))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
