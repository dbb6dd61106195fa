package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-finder/internal/config"
	"github.com/jonathan/skill-finder/internal/server"
)

var (
	serveConfigPath string
	servePort       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes skill extraction, profile, and match endpoints.

Without DATABASE_URL conversations are kept in memory; without GEMINI_API_KEY extraction runs locally only.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by environment variables)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (defaults to PORT env var, then 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	var fileCfg config.Config
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg = *loaded
	}

	envCfg := config.FromEnv()
	if cmd.Flags().Changed("port") {
		envCfg.Port = servePort
	}

	cfg := envCfg.MergeWithDefaults(fileCfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:          cfg.Port,
		DatabaseURL:   cfg.DatabaseURL,
		APIKey:        cfg.APIKey,
		RemoteTimeout: time.Duration(cfg.RemoteTimeoutSec) * time.Second,
		KBLimit:       cfg.KBLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
