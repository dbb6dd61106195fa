// Package server provides the HTTP REST API for the skill finder.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/skill-finder/internal/db"
	"github.com/jonathan/skill-finder/internal/extraction"
	"github.com/jonathan/skill-finder/internal/kb"
	"github.com/jonathan/skill-finder/internal/llm"
	"github.com/jonathan/skill-finder/internal/profile"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	store      *db.Store // nil when running on the in-memory store
	llmClient  llm.Client
	aggregator *profile.Aggregator
	dispatcher *extraction.Dispatcher
	validator  *validator.Validate
	guard      *sessionGuard
}

// Config holds server configuration
type Config struct {
	Port          string
	DatabaseURL   string
	APIKey        string
	RemoteTimeout time.Duration
	KBLimit       int
}

// New creates a new server instance. Without a database URL turns are kept in
// memory; without an API key extraction runs locally only.
func New(cfg Config) (*Server, error) {
	s := &Server{
		validator: validator.New(),
		guard:     newSessionGuard(),
	}

	var turns profile.TurnStore
	if cfg.DatabaseURL != "" {
		ctx := context.Background()
		store, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		s.store = store
		turns = store
	} else {
		log.Println("DATABASE_URL not set, keeping conversations in memory")
		turns = db.NewMemoryStore()
	}
	s.aggregator = profile.NewAggregator(turns)

	var remote *extraction.RemoteExtractor
	if cfg.APIKey != "" {
		client, err := llm.NewGeminiClient(context.Background(), nil, cfg.APIKey)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		s.llmClient = client
		remote = extraction.NewRemoteExtractor(client, kb.NewRetriever(cfg.KBLimit))
	} else {
		log.Println("GEMINI_API_KEY not set, extraction runs locally only")
	}
	s.dispatcher = extraction.NewDispatcher(remote, cfg.RemoteTimeout)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	s.httpServer = &http.Server{
		Addr:         ":" + port,
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router with the middleware chain applied.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/profile/{session_id}", s.handleGetProfile)
	mux.HandleFunc("GET /api/conversation/{session_id}", s.handleGetConversation)
	mux.HandleFunc("DELETE /api/conversation/{session_id}", s.handleDeleteConversation)
	mux.HandleFunc("POST /api/match", s.handleMatch)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withLogging(s.withCORS(mux))
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close releases the server's database and LLM resources.
func (s *Server) Close() {
	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			log.Printf("Error closing LLM client: %v", err)
		}
	}
	if s.store != nil {
		s.store.Close()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
