package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-finder/internal/extraction"
	"github.com/jonathan/skill-finder/internal/kb"
	"github.com/jonathan/skill-finder/internal/llm"
	"github.com/jonathan/skill-finder/internal/match"
	"github.com/jonathan/skill-finder/internal/observability"
)

var (
	matchCandidatePath string
	matchJobPath       string
	matchAPIKey        string
	matchLocalOnly     bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Compare a candidate description against a job description",
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&matchCandidatePath, "candidate", "c", "", "Path to candidate text file")
	matchCmd.Flags().StringVarP(&matchJobPath, "job", "j", "", "Path to job description text file")
	matchCmd.Flags().StringVar(&matchAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	matchCmd.Flags().BoolVar(&matchLocalOnly, "local", false, "Skip the remote model and extract locally only")
	_ = matchCmd.MarkFlagRequired("candidate")
	_ = matchCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	candidateText, err := os.ReadFile(matchCandidatePath)
	if err != nil {
		return fmt.Errorf("failed to read candidate file: %w", err)
	}
	jobText, err := os.ReadFile(matchJobPath)
	if err != nil {
		return fmt.Errorf("failed to read job file: %w", err)
	}

	apiKey := matchAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	var remote *extraction.RemoteExtractor
	if apiKey != "" && !matchLocalOnly {
		client, err := llm.NewGeminiClient(ctx, nil, apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer client.Close()
		remote = extraction.NewRemoteExtractor(client, kb.NewRetriever(0))
	}

	dispatcher := extraction.NewDispatcher(remote, 0)
	report, err := match.Compare(ctx, dispatcher, string(candidateText), string(jobText), !matchLocalOnly)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintMatchReport(report)
	return nil
}
