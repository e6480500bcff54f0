package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"resume-chatbot/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, chat ChatResponder, cfg RouterConfig) *gin.Engine {
	t.Helper()
	return NewRouter(newTestHandler(t, chat), cfg)
}

func serve(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	chat := &stubChat{}
	r := newTestRouter(t, chat, RouterConfig{})

	w := serve(r, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	require.NotEmpty(t, w.Header().Get(requestIDHeader))
	require.Zero(t, chat.calls)
}

func TestRouter_Chat(t *testing.T) {
	chat := &stubChat{reply: "hello"}
	r := newTestRouter(t, chat, RouterConfig{})

	w := serve(r, http.MethodPost, "/api/chat", `{"message":"hi","sessionId":"s-1"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	out := parseBody[domain.ChatResponse](t, w.Body.String())
	require.Equal(t, "hello", out.Reply)
	require.False(t, out.Timestamp.IsZero())
	require.Equal(t, "s-1", chat.in.SessionID)
}

func TestRouter_ChatEmptyMessageRejected(t *testing.T) {
	chat := &stubChat{reply: "unused"}
	r := newTestRouter(t, chat, RouterConfig{})

	w := serve(r, http.MethodPost, "/api/chat", `{"message":"","sessionId":"s-1"}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Zero(t, chat.calls)
	require.Contains(t, parseBody[domain.ErrorResponse](t, w.Body.String()).Detail, "message")
}

func TestRouter_ChatPanicBecomes500(t *testing.T) {
	r := newTestRouter(t, &stubChat{panic: true}, RouterConfig{})

	w := serve(r, http.MethodPost, "/api/chat", `{"message":"hi","sessionId":"s-1"}`, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"detail":"`+internalErrorReply+`"}`, w.Body.String())
}

func TestRouter_BodyTooLarge(t *testing.T) {
	chat := &stubChat{reply: "unused"}
	r := newTestRouter(t, chat, RouterConfig{MaxBodyBytes: 16})

	w := serve(r, http.MethodPost, "/api/chat", `{"message":"a long question","sessionId":"s-1"}`, nil)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	require.Zero(t, chat.calls)
}

func TestRouter_KeepsProvidedRequestID(t *testing.T) {
	r := newTestRouter(t, &stubChat{}, RouterConfig{})
	w := serve(r, http.MethodGet, "/api/health", "", map[string]string{requestIDHeader: "req-42"})
	require.Equal(t, "req-42", w.Header().Get(requestIDHeader))
}

func TestRouter_CORS(t *testing.T) {
	cases := []struct {
		name    string
		origins []string
		origin  string
		allowed bool
	}{
		{name: "listed", origins: []string{"http://localhost:5173"}, origin: "http://localhost:5173", allowed: true},
		{name: "trailing slash in config", origins: []string{"http://localhost:5173/"}, origin: "http://localhost:5173", allowed: true},
		{name: "not listed", origins: []string{"http://localhost:5173"}, origin: "https://evil.example", allowed: false},
		{name: "wildcard", origins: []string{"*"}, origin: "https://anywhere.example", allowed: true},
		{name: "no origin header", origins: []string{"*"}, origin: "", allowed: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(t, &stubChat{reply: "ok"}, RouterConfig{CORSOrigins: tc.origins})
			headers := map[string]string{}
			if tc.origin != "" {
				headers["Origin"] = tc.origin
			}

			w := serve(r, http.MethodOptions, "/api/chat", "", headers)
			require.Equal(t, http.StatusNoContent, w.Code)

			got := w.Header().Get("Access-Control-Allow-Origin")
			if tc.allowed {
				require.Equal(t, tc.origin, got)
				require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
			} else {
				require.Empty(t, got)
			}
		})
	}
}

func TestRouter_CORSOnSimpleRequest(t *testing.T) {
	r := newTestRouter(t, &stubChat{reply: "ok"}, RouterConfig{CORSOrigins: []string{"https://me.dev"}})
	w := serve(r, http.MethodPost, "/api/chat", `{"message":"hi","sessionId":"s-1"}`, map[string]string{"Origin": "https://me.dev"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "https://me.dev", w.Header().Get("Access-Control-Allow-Origin"))
}
