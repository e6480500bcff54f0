package resume

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"resume-chatbot/internal/integrations/paramstore"
)

//go:embed default_resume.txt
var defaultText string

// Source names where the resume text lives. Param takes precedence over File;
// with neither set the embedded document is used.
type Source struct {
	Param string
	File  string
}

// Origin describes which source supplied the text, for startup logging.
func (s Source) Origin() string {
	switch {
	case strings.TrimSpace(s.Param) != "":
		return "ssm:" + strings.TrimSpace(s.Param)
	case strings.TrimSpace(s.File) != "":
		return "file:" + strings.TrimSpace(s.File)
	default:
		return "embedded"
	}
}

// Load resolves the resume text once at startup. g may be nil unless
// src.Param is set.
func Load(ctx context.Context, src Source, g paramstore.Getter) (string, error) {
	var (
		text string
		err  error
	)
	switch {
	case strings.TrimSpace(src.Param) != "":
		text, err = paramstore.Override(ctx, g, src.Param, "")
		if err != nil {
			return "", fmt.Errorf("resume: load from parameter store: %w", err)
		}
	case strings.TrimSpace(src.File) != "":
		raw, readErr := os.ReadFile(strings.TrimSpace(src.File))
		if readErr != nil {
			return "", fmt.Errorf("resume: read file: %w", readErr)
		}
		text = string(raw)
	default:
		text = defaultText
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("resume: text is empty")
	}
	return text, nil
}
