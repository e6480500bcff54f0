package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"resume-chatbot/handler"
	"resume-chatbot/internal/config"
	"resume-chatbot/internal/integrations/paramstore"
	"resume-chatbot/internal/integrations/webhook"
	"resume-chatbot/internal/logger"
	"resume-chatbot/internal/resume"
	"resume-chatbot/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	envFile string
	host    string
	port    int
}

func newServeCmd() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat API (HTTP listener, or Lambda when running inside AWS Lambda)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "dotenv file to load before reading the environment")
	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (overrides HOST)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "listen port (overrides PORT)")
	return cmd
}

func runServe(cmd *cobra.Command, opts serveOptions) error {
	settings, err := config.Load(opts.envFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		settings.Host = opts.host
	}
	if cmd.Flags().Changed("port") {
		settings.Port = opts.port
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	log, err := logger.New(settings.LogFormat, settings.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(log)
	log = log.With("component", "cmd.serve")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// SSM is only contacted when a *_PARAM setting is set.
	var params paramstore.Getter
	if settings.NeedsParamStore() {
		ps, err := paramstore.NewFromDefaultConfig(ctx)
		if err != nil {
			return err
		}
		params = ps
	}
	settings, err = settings.ResolveParams(ctx, params)
	if err != nil {
		return err
	}

	resumeText, err := resume.Load(ctx, settings.ResumeSource(), params)
	if err != nil {
		return err
	}

	// Leaving the webhook unset is allowed; replies then explain the missing configuration.
	var poster usecase.Poster
	if settings.WebhookConfigured() {
		wc, err := webhook.NewClient(settings.WebhookURL, webhook.WithTimeout(settings.WebhookTimeout))
		if err != nil {
			return err
		}
		poster = wc
	} else {
		log.Warn("N8N_WEBHOOK_URL not configured; chat replies will explain the missing configuration")
	}

	chat, err := usecase.NewChatService(poster, resumeText, slog.Default())
	if err != nil {
		return err
	}
	h, err := handler.NewHandler(chat, slog.Default())
	if err != nil {
		return err
	}

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		log.Info("starting lambda handler", "resume", settings.ResumeSource().Origin())
		lambda.StartWithOptions(handler.NewLambdaHandler(h, settings.CORSOrigins).Handle, lambda.WithContext(ctx))
		return nil
	}

	return listen(ctx, log, settings, h)
}

func listen(ctx context.Context, log *slog.Logger, settings config.Settings, h *handler.Handler) error {
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              settings.Addr(),
		Handler:           handler.NewRouter(h, handler.RouterConfig{CORSOrigins: settings.CORSOrigins}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info("resume chatbot API starting up",
		"addr", settings.Addr(),
		"webhook_configured", settings.WebhookConfigured(),
		"cors_origins", settings.CORSOrigins,
		"resume", settings.ResumeSource().Origin(),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("resume chatbot API shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
