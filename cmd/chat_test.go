package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"resume-chatbot/internal/apiclient"
	"resume-chatbot/internal/domain"
)

func TestQuickQuestion(t *testing.T) {
	q, ok := quickQuestion("1")
	require.True(t, ok)
	require.Equal(t, apiclient.QuickQuestions[0], q)

	for _, arg := range []string{"", "0", "4", "two"} {
		_, ok := quickQuestion(arg)
		require.False(t, ok, "arg=%q", arg)
	}
}

func TestPrintQuickQuestions(t *testing.T) {
	var buf bytes.Buffer
	printQuickQuestions(&buf)
	require.Contains(t, buf.String(), "[3] What are your main skills?")
}

func TestServeFlags(t *testing.T) {
	cmd := newServeCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--port", "9000", "--host", "127.0.0.1"}))
	require.True(t, cmd.Flags().Changed("port"))
	require.Equal(t, ".env", cmd.Flags().Lookup("env-file").DefValue)
}

type fakeChatAPI struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeChatAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.messages = append(f.messages, req.Message)
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(domain.NewChatResponse("pong"))
}

func (f *fakeChatAPI) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}

func TestHandleLine(t *testing.T) {
	cases := []struct {
		name     string
		line     string
		wantQuit bool
		wantOut  string
		wantSent []string
	}{
		{name: "blank", line: "   ", wantSent: nil},
		{name: "quit", line: "/quit", wantQuit: true},
		{name: "exit", line: " /exit ", wantQuit: true},
		{name: "help", line: "/help", wantOut: "/ask N"},
		{name: "ask out of range", line: "/ask 9", wantOut: "usage: /ask 1-3"},
		{name: "ask missing number", line: "/ask", wantOut: "usage: /ask 1-3"},
		{name: "ask quick question", line: "/ask 1", wantOut: "bot> pong", wantSent: []string{apiclient.QuickQuestions[0]}},
		{name: "free text", line: "What do you build?", wantOut: "bot> pong", wantSent: []string{"What do you build?"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeChatAPI{}
			srv := httptest.NewServer(api)
			t.Cleanup(srv.Close)

			client, err := apiclient.New(srv.URL)
			require.NoError(t, err)
			conv := apiclient.NewConversation(client)

			var out bytes.Buffer
			quit := handleLine(context.Background(), &out, conv, tc.line)
			require.Equal(t, tc.wantQuit, quit)
			require.Contains(t, out.String(), tc.wantOut)
			require.Equal(t, tc.wantSent, api.received())
		})
	}
}

func TestHandleLine_ClearStartsNewSession(t *testing.T) {
	api := &fakeChatAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(srv.URL)
	require.NoError(t, err)
	conv := apiclient.NewConversation(client)

	var out bytes.Buffer
	require.False(t, handleLine(context.Background(), &out, conv, "hello"))
	require.Len(t, conv.History(), 2)
	before := conv.SessionID()

	out.Reset()
	require.False(t, handleLine(context.Background(), &out, conv, "/clear"))
	require.Contains(t, out.String(), "Conversation cleared.")
	require.Empty(t, conv.History())
	require.NotEqual(t, before, conv.SessionID())
}
