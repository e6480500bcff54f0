package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "resume-chatbot",
	Short:         "Resume chatbot API that forwards questions to an n8n webhook",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	rootCmd.AddCommand(newServeCmd(), newChatCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
