// Command chat is a terminal client for the scheduling assistant. Each line
// typed is sent to the backend; /clear starts a new conversation and /quit
// exits.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AshrithRedx/ConversationalAiAgent2/internal/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := config.LoadFromEnv()
	var (
		backendURL string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the smart scheduling assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newChatClient(backendURL, timeout)
			return runREPL(cmd.Context(), client, cmd.InOrStdin(), cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&backendURL, "backend", cfg.BackendURL, "backend base URL (BACKEND_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "per-message request timeout")

	return cmd
}

func runREPL(ctx context.Context, client *chatClient, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Fprintln(out, "🗓️  Smart Scheduling Assistant. Type /clear for a new chat, /quit to exit.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			client.newSession(ctx)
			fmt.Fprintln(out, "Started a new chat.")
			continue
		}

		reply, err := client.send(ctx, line)
		if err != nil {
			fmt.Fprintf(out, "⚠️  %v\n", err)
			continue
		}
		fmt.Fprintln(out, reply)
	}
}
