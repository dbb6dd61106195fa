// Package profile aggregates per-turn skill mentions into a per-session
// skill profile. The profile is never stored: it is recomputed from the turn
// log on every read, so it can never drift from what was recorded.
package profile

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonathan/skill-finder/internal/roles"
	"github.com/jonathan/skill-finder/internal/types"
)

// TurnStore is the conversation store the aggregator depends on: append-only
// turn writes and ordered reads per session.
type TurnStore interface {
	// AppendTurn persists a turn, assigning its sequence number and
	// timestamp, and returns the stored record.
	AppendTurn(ctx context.Context, turn types.ConversationTurn) (types.ConversationTurn, error)
	// ListTurns returns all turns for a session in append order. An unknown
	// session yields an empty slice, not an error.
	ListTurns(ctx context.Context, sessionID string) ([]types.ConversationTurn, error)
	// DeleteSession removes all turns for a session.
	DeleteSession(ctx context.Context, sessionID string) error
}

// Aggregator is the only mutator of session state. Concurrent requests for
// the same session serialize at the turn-append boundary so the ordering the
// running-mean recomputation relies on cannot be corrupted.
type Aggregator struct {
	store TurnStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewAggregator creates an aggregator over the given store.
func NewAggregator(store TurnStore) *Aggregator {
	return &Aggregator{store: store, locks: make(map[string]*sync.Mutex)}
}

func (a *Aggregator) sessionLock(sessionID string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	lock, ok := a.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[sessionID] = lock
	}
	return lock
}

// RecordTurn appends one exchange to the session's turn log.
func (a *Aggregator) RecordTurn(ctx context.Context, sessionID, userText, botReply string, mentions []types.SkillMention) (types.ConversationTurn, error) {
	lock := a.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	turn := types.ConversationTurn{
		SessionID: sessionID,
		UserText:  userText,
		BotReply:  botReply,
		Skills:    mentions,
		CreatedAt: time.Now().UTC(),
	}

	stored, err := a.store.AppendTurn(ctx, turn)
	if err != nil {
		return types.ConversationTurn{}, fmt.Errorf("failed to append turn: %w", err)
	}
	return stored, nil
}

// Profile recomputes the session's skill profile from its turn log. A
// session with no turns yields empty structures, not an error; an unknown
// session is indistinguishable from an empty one.
func (a *Aggregator) Profile(ctx context.Context, sessionID string) (*types.SkillProfile, error) {
	turns, err := a.store.ListTurns(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load turns: %w", err)
	}

	stats := make(map[string]types.SkillStat)
	for _, turn := range turns {
		for _, m := range turn.Skills {
			s, ok := stats[m.Name]
			if !ok {
				s = types.SkillStat{Name: m.Name, Category: m.Category}
			}
			s.MentionCount++
			// Running mean, incremental form.
			s.AvgConfidence += (m.Confidence - s.AvgConfidence) / float64(s.MentionCount)
			stats[m.Name] = s
		}
	}

	skills := make([]types.SkillStat, 0, len(stats))
	for _, s := range stats {
		skills = append(skills, s)
	}
	sort.Slice(skills, func(i, j int) bool {
		if skills[i].MentionCount != skills[j].MentionCount {
			return skills[i].MentionCount > skills[j].MentionCount
		}
		if skills[i].AvgConfidence != skills[j].AvgConfidence {
			return skills[i].AvgConfidence > skills[j].AvgConfidence
		}
		return skills[i].Name < skills[j].Name
	})

	return &types.SkillProfile{
		SessionID:      sessionID,
		TotalTurns:     len(turns),
		TotalSkills:    len(skills),
		Skills:         skills,
		SuggestedRoles: roles.Suggest(stats),
	}, nil
}

// History returns the session's turns in append order.
func (a *Aggregator) History(ctx context.Context, sessionID string) ([]types.ConversationTurn, error) {
	turns, err := a.store.ListTurns(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load turns: %w", err)
	}
	return turns, nil
}

// DeleteSession destroys the session's turn log, and with it the profile.
func (a *Aggregator) DeleteSession(ctx context.Context, sessionID string) error {
	lock := a.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := a.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	a.mu.Lock()
	delete(a.locks, sessionID)
	a.mu.Unlock()
	return nil
}
