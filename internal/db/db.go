// Package db provides conversation turn storage: a PostgreSQL-backed store
// for deployments and an in-memory store for development and tests.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/skill-finder/internal/types"
)

// Store wraps a PostgreSQL connection pool
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the conversation_turns table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS conversation_turns (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			user_text TEXT NOT NULL,
			bot_reply TEXT NOT NULL,
			skills JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (session_id, seq)
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// AppendTurn stores a turn, assigning the next sequence number within the
// session, and returns the stored record.
func (s *Store) AppendTurn(ctx context.Context, turn types.ConversationTurn) (types.ConversationTurn, error) {
	skillsJSON, err := json.Marshal(turn.Skills)
	if err != nil {
		return types.ConversationTurn{}, fmt.Errorf("failed to marshal skills: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO conversation_turns (session_id, seq, user_text, bot_reply, skills)
		 VALUES ($1,
		         (SELECT COALESCE(MAX(seq), 0) + 1 FROM conversation_turns WHERE session_id = $1),
		         $2, $3, $4)
		 RETURNING seq, created_at`,
		turn.SessionID, turn.UserText, turn.BotReply, skillsJSON,
	).Scan(&turn.Seq, &turn.CreatedAt)
	if err != nil {
		return types.ConversationTurn{}, fmt.Errorf("failed to append turn: %w", err)
	}
	return turn, nil
}

// ListTurns retrieves all turns for a session in sequence order.
func (s *Store) ListTurns(ctx context.Context, sessionID string) ([]types.ConversationTurn, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT session_id, seq, user_text, bot_reply, skills, created_at
		 FROM conversation_turns WHERE session_id = $1 ORDER BY seq ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	defer rows.Close()

	turns := []types.ConversationTurn{}
	for rows.Next() {
		var turn types.ConversationTurn
		var skillsJSON []byte
		if err := rows.Scan(&turn.SessionID, &turn.Seq, &turn.UserText, &turn.BotReply, &skillsJSON, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		if err := json.Unmarshal(skillsJSON, &turn.Skills); err != nil {
			return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

// DeleteSession removes all turns for a session.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM conversation_turns WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
