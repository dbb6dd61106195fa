// Package types defines the core data structures shared across the skill finder.
package types

import "time"

// SkillMention is one detected occurrence of a skill in one message.
type SkillMention struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence,omitempty"`
}

// ConversationTurn is an immutable record of one chat exchange.
// Turns are created once per message and never mutated.
type ConversationTurn struct {
	SessionID string         `json:"session_id"`
	Seq       int            `json:"seq"`
	UserText  string         `json:"user_text"`
	BotReply  string         `json:"bot_reply"`
	Skills    []SkillMention `json:"skills"`
	CreatedAt time.Time      `json:"created_at"`
}

// SkillStat is the per-skill aggregate across all turns of a session.
type SkillStat struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	MentionCount  int     `json:"mention_count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// SkillProfile is the derived per-session aggregate. It is recomputed from
// the turn log on every read and has no identity beyond its session ID.
type SkillProfile struct {
	SessionID      string      `json:"session_id"`
	TotalTurns     int         `json:"total_turns"`
	TotalSkills    int         `json:"total_skills"`
	Skills         []SkillStat `json:"skills"`
	SuggestedRoles []string    `json:"suggested_roles"`
}

// MatchReport compares skills extracted from a candidate's text against
// skills extracted from a job description.
type MatchReport struct {
	MatchScore      float64        `json:"match_score"`
	CandidateSkills []SkillMention `json:"candidate_skills"`
	JobSkills       []SkillMention `json:"jd_skills"`
	MatchedSkills   []string       `json:"matched_skills"`
	MissingSkills   []string       `json:"missing_skills"`
	ExtraSkills     []string       `json:"extra_skills"`
}
