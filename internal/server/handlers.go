package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/skill-finder/internal/match"
	"github.com/jonathan/skill-finder/internal/types"
)

// ChatRequest is the body of POST /api/chat. A missing session_id starts a
// new session; use_remote defaults to true and is ignored when no remote
// extractor is configured.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message" validate:"required"`
	UseRemote *bool  `json:"use_remote,omitempty"`
}

// ChatResponse is the body of a successful POST /api/chat.
type ChatResponse struct {
	SessionID string               `json:"session_id"`
	Reply     string               `json:"reply"`
	Skills    []types.SkillMention `json:"skills"`
	Timestamp time.Time            `json:"timestamp"`
}

// MatchRequest is the body of POST /api/match.
type MatchRequest struct {
	CandidateText  string `json:"candidate_text" validate:"required"`
	JobDescription string `json:"job_description" validate:"required"`
	UseRemote      *bool  `json:"use_remote,omitempty"`
}

// ConversationResponse is the body of GET /api/conversation/{session_id}.
type ConversationResponse struct {
	SessionID string                   `json:"session_id"`
	Turns     []types.ConversationTurn `json:"turns"`
}

// handleChat processes one chat message: extract skills, record the turn,
// return the reply.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.errorResponse(w, http.StatusBadRequest, "message must not be empty")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if !s.guard.acquire(sessionID) {
		s.errorResponse(w, http.StatusConflict, "another request for this session is in flight")
		return
	}
	defer s.guard.release(sessionID)

	useRemote := req.UseRemote == nil || *req.UseRemote

	var history []types.ConversationTurn
	if useRemote && s.dispatcher.RemoteAvailable() {
		var err error
		history, err = s.aggregator.History(r.Context(), sessionID)
		if err != nil {
			log.Printf("Failed to load history for %s: %v", sessionID, err)
		}
	}

	result := s.dispatcher.Extract(r.Context(), req.Message, useRemote, history)

	turn, err := s.aggregator.RecordTurn(r.Context(), sessionID, req.Message, result.Reply, result.Mentions)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to record turn")
		return
	}

	s.jsonResponse(w, http.StatusOK, ChatResponse{
		SessionID: sessionID,
		Reply:     result.Reply,
		Skills:    result.Mentions,
		Timestamp: turn.CreatedAt,
	})
}

// handleGetProfile returns the aggregated skill profile for a session. An
// unknown session yields an empty profile, not a 404.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	prof, err := s.aggregator.Profile(r.Context(), sessionID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to build profile")
		return
	}
	s.jsonResponse(w, http.StatusOK, prof)
}

// handleGetConversation returns the ordered turn history for a session.
func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	turns, err := s.aggregator.History(r.Context(), sessionID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}
	s.jsonResponse(w, http.StatusOK, ConversationResponse{SessionID: sessionID, Turns: turns})
}

// handleDeleteConversation destroys a session's turns and, with them, its
// profile.
func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	if !s.guard.acquire(sessionID) {
		s.errorResponse(w, http.StatusConflict, "another request for this session is in flight")
		return
	}
	defer s.guard.release(sessionID)

	if err := s.aggregator.DeleteSession(r.Context(), sessionID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete conversation")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"session_id": sessionID,
		"status":     "deleted",
	})
}

// handleMatch compares candidate text against a job description.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	useRemote := req.UseRemote == nil || *req.UseRemote

	report, err := match.Compare(r.Context(), s.dispatcher, req.CandidateText, req.JobDescription, useRemote)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to compare texts")
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
