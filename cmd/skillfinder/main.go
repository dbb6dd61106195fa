// Package main provides the entry point for the Skill Finder HTTP API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skillfinder",
	Short: "Skill Finder conversational skill extraction service",
	Long:  "Skill Finder extracts technical skills from chat messages, aggregates them into per-session profiles, and suggests matching roles via REST API or an interactive CLI.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
