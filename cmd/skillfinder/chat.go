package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/skill-finder/internal/db"
	"github.com/jonathan/skill-finder/internal/extraction"
	"github.com/jonathan/skill-finder/internal/kb"
	"github.com/jonathan/skill-finder/internal/llm"
	"github.com/jonathan/skill-finder/internal/observability"
	"github.com/jonathan/skill-finder/internal/profile"
)

var (
	chatAPIKey    string
	chatLocalOnly bool
	chatVerbose   bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Chat about your experience and watch skills accumulate into a profile.

Type /profile to see the current skill profile, /quit to exit.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	chatCmd.Flags().BoolVar(&chatLocalOnly, "local", false, "Skip the remote model and extract locally only")
	chatCmd.Flags().BoolVarP(&chatVerbose, "verbose", "v", false, "Print detected skills after every message")
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	apiKey := chatAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	var remote *extraction.RemoteExtractor
	if apiKey != "" && !chatLocalOnly {
		client, err := llm.NewGeminiClient(ctx, nil, apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer client.Close()
		remote = extraction.NewRemoteExtractor(client, kb.NewRetriever(0))
	} else {
		fmt.Println("Running in local extraction mode.")
	}

	dispatcher := extraction.NewDispatcher(remote, 0)
	aggregator := profile.NewAggregator(db.NewMemoryStore())
	printer := observability.NewPrinter(os.Stdout)
	sessionID := uuid.NewString()

	fmt.Printf("Session %s. Tell me about your work (/profile, /quit).\n", sessionID)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "/quit", "/exit":
			return scanner.Err()
		case "/profile":
			prof, err := aggregator.Profile(ctx, sessionID)
			if err != nil {
				return err
			}
			printer.PrintProfile(prof)
			continue
		}

		history, err := aggregator.History(ctx, sessionID)
		if err != nil {
			return err
		}

		start := time.Now()
		result := dispatcher.Extract(ctx, line, !chatLocalOnly, history)
		if _, err := aggregator.RecordTurn(ctx, sessionID, line, result.Reply, result.Mentions); err != nil {
			return err
		}

		fmt.Println(result.Reply)
		if chatVerbose {
			printer.PrintMentions(result.Mentions)
			fmt.Printf("(%d skills in %v)\n", len(result.Mentions), time.Since(start).Round(time.Millisecond))
		}
	}
	return scanner.Err()
}
