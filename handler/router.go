package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-chatbot/internal/domain"
)

const (
	defaultMaxBodyBytes = 1 << 20
	requestIDKey        = "request_id"
)

type RouterConfig struct {
	CORSOrigins  []string
	MaxBodyBytes int64
}

// NewRouter mounts the API routes on a new gin engine.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}

	r := gin.New()
	r.Use(requestID())
	r.Use(accessLog(h.log))
	r.Use(gin.CustomRecovery(recoverJSON(h.log)))
	r.Use(corsMiddleware(newCORSPolicy(cfg.CORSOrigins)))
	r.Use(requestSizeLimiter(cfg.MaxBodyBytes))

	api := r.Group("/api")
	api.GET("/health", h.handleHealth)
	api.POST("/chat", h.handleChat)
	return r
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(h.health())
}

func (h *Handler) handleChat(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, domain.ErrorResponse{Detail: "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Detail: "could not read request body"})
		return
	}
	c.JSON(h.serveChat(c.Request.Context(), c.GetString(requestIDKey), body))
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = newUUID()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

func recoverJSON(log *slog.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, err any) {
		log.Error("panic serving request", "request_id", c.GetString(requestIDKey), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, domain.ErrorResponse{Detail: internalErrorReply})
	}
}

func corsMiddleware(p corsPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		for k, v := range p.headers(c.GetHeader("Origin")) {
			c.Header(k, v)
		}
		if isPreflight(c.Request.Method) {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
