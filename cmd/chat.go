package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"resume-chatbot/internal/apiclient"
)

const chatHelp = `Ask anything about my experience, skills, or projects.
Commands:
  /ask N   send quick question N
  /clear   clear the conversation and start a new session
  /quit    exit`

func newChatCmd() *cobra.Command {
	var apiURL string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the resume bot through the API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd.Context(), apiURL)
		},
	}
	cmd.Flags().StringVar(&apiURL, "api-url", apiclient.DefaultBaseURL, "base URL of the chat API")
	return cmd
}

func runChat(ctx context.Context, apiURL string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := apiclient.New(apiURL)
	if err != nil {
		return err
	}
	conv := apiclient.NewConversation(client)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "you> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "/quit",
	})
	if err != nil {
		return fmt.Errorf("chat: init readline: %w", err)
	}
	defer func() { _ = rl.Close() }()
	out := rl.Stdout()

	if _, err := client.Health(ctx); err != nil {
		fmt.Fprintf(out, "warning: %s is not reachable: %v\n", client.BaseURL(), err)
	}
	fmt.Fprintln(out, chatHelp)
	printQuickQuestions(out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("chat: read input: %w", err)
		}

		if quit := handleLine(ctx, out, conv, line); quit {
			return nil
		}
	}
}

// handleLine runs one line of input and reports whether the session is over.
func handleLine(ctx context.Context, out io.Writer, conv *apiclient.Conversation, line string) bool {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return false
	case line == "/quit" || line == "/exit":
		return true
	case line == "/clear":
		conv.Reset()
		fmt.Fprintln(out, "Conversation cleared.")
		printQuickQuestions(out)
		return false
	case line == "/help":
		fmt.Fprintln(out, chatHelp)
		printQuickQuestions(out)
		return false
	case strings.HasPrefix(line, "/ask"):
		q, ok := quickQuestion(strings.TrimSpace(strings.TrimPrefix(line, "/ask")))
		if !ok {
			fmt.Fprintf(out, "usage: /ask 1-%d\n", len(apiclient.QuickQuestions))
			return false
		}
		fmt.Fprintf(out, "you> %s\n", q)
		line = q
	}

	fmt.Fprintln(out, "...")
	reply, _ := conv.Ask(ctx, line)
	fmt.Fprintf(out, "bot> %s\n\n", reply)
	return false
}

func printQuickQuestions(w io.Writer) {
	for i, q := range apiclient.QuickQuestions {
		fmt.Fprintf(w, "  [%d] %s\n", i+1, q)
	}
}

func quickQuestion(arg string) (string, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(apiclient.QuickQuestions) {
		return "", false
	}
	return apiclient.QuickQuestions[n-1], true
}
