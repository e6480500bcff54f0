package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"resume-chatbot/internal/integrations/paramstore"
	"resume-chatbot/internal/resume"
)

const DefaultEnvFile = ".env"

// AnyOrigin in CORS_ORIGINS allows every origin.
const AnyOrigin = "*"

// Settings is the process-wide configuration. It is loaded once at startup and
// not mutated afterwards.
type Settings struct {
	WebhookURL      string        `env:"N8N_WEBHOOK_URL"`
	WebhookURLParam string        `env:"N8N_WEBHOOK_URL_PARAM"`
	WebhookTimeout  time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"60s"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173,http://127.0.0.1:3000"`

	ResumeFile  string `env:"RESUME_FILE"`
	ResumeParam string `env:"RESUME_PARAM"`

	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"8000"`

	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads envFile (if it exists) into the process environment without
// overriding variables that are already set, then parses Settings.
func Load(envFile string) (Settings, error) {
	if envFile = strings.TrimSpace(envFile); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	s, err := env.ParseAs[Settings]()
	if err != nil {
		return Settings{}, fmt.Errorf("config: parse environment: %w", err)
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) normalize() {
	s.WebhookURL = strings.TrimSpace(s.WebhookURL)
	s.Host = strings.TrimSpace(s.Host)
	s.LogFormat = strings.ToLower(strings.TrimSpace(s.LogFormat))
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))

	origins := make([]string, 0, len(s.CORSOrigins))
	for _, o := range s.CORSOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			origins = append(origins, o)
		}
	}
	s.CORSOrigins = origins
}

func (s Settings) Validate() error {
	if s.WebhookURL != "" {
		if err := validateURL(s.WebhookURL); err != nil {
			return fmt.Errorf("config: N8N_WEBHOOK_URL: %w", err)
		}
	}
	if s.WebhookTimeout <= 0 {
		return errors.New("config: WEBHOOK_TIMEOUT must be positive")
	}
	if len(s.CORSOrigins) == 0 {
		return errors.New("config: CORS_ORIGINS must list at least one origin")
	}
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("config: PORT %d out of range", s.Port)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func (s Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// WebhookConfigured reports whether a webhook URL is set. Without one the
// service answers every chat with a configuration message.
func (s Settings) WebhookConfigured() bool {
	return s.WebhookURL != ""
}

// NeedsParamStore reports whether any value must be read from SSM.
func (s Settings) NeedsParamStore() bool {
	return strings.TrimSpace(s.WebhookURLParam) != "" || strings.TrimSpace(s.ResumeParam) != ""
}

func (s Settings) ResumeSource() resume.Source {
	return resume.Source{Param: s.ResumeParam, File: s.ResumeFile}
}

// ResolveParams returns a copy of s with values named by *_PARAM settings
// replaced from the parameter store.
func (s Settings) ResolveParams(ctx context.Context, g paramstore.Getter) (Settings, error) {
	webhookURL, err := paramstore.Override(ctx, g, s.WebhookURLParam, s.WebhookURL)
	if err != nil {
		return Settings{}, fmt.Errorf("config: resolve webhook url: %w", err)
	}
	s.WebhookURL = webhookURL
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
