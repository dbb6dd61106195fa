// Package roles derives ranked job-role suggestions from an aggregated skill
// mapping. Suggestion is a pure function of the mapping: identical input
// yields identical output.
package roles

import (
	"sort"

	"github.com/jonathan/skill-finder/internal/lexicon"
	"github.com/jonathan/skill-finder/internal/types"
)

// minSuggestScore is the score a role must exceed to qualify for suggestion.
const minSuggestScore = 0.5

// roleDef defines one candidate role as weighted canonical skills plus
// weighted categories. Category weights apply to skills in that category
// that are not already weighted by name.
type roleDef struct {
	name            string
	skillWeights    map[string]float64
	categoryWeights map[string]float64
}

// definitions is the fixed role catalog, in tie-break priority order.
var definitions = []roleDef{
	{
		name: "Backend Engineer",
		skillWeights: map[string]float64{
			"FastAPI": 1.0, "Django": 1.0, "Express": 1.0,
			"Node.js": 0.8, "REST API": 0.8, "GraphQL": 0.6,
			"Go": 0.8, "Java": 0.6, "Python": 0.5,
			"SQL": 0.6, "PostgreSQL": 0.5, "MySQL": 0.5, "MongoDB": 0.5,
		},
	},
	{
		name: "Full-Stack Developer",
		skillWeights: map[string]float64{
			"React": 0.5, "Vue": 0.5,
			"JavaScript": 0.3, "TypeScript": 0.3,
			"Node.js": 0.5, "Express": 0.5, "FastAPI": 0.4, "Django": 0.4,
			"REST API": 0.3,
		},
	},
	{
		name: "DevOps / Cloud Engineer",
		skillWeights: map[string]float64{
			"Docker": 1.0, "Kubernetes": 1.0, "CI/CD": 1.0,
			"GitHub Actions": 0.8, "Jenkins": 0.8, "Terraform": 0.9,
		},
		categoryWeights: map[string]float64{
			lexicon.CategoryCloud: 0.9,
		},
	},
	{
		name: "Data Engineer / Data Analyst",
		skillWeights: map[string]float64{
			"Pandas": 1.0, "NumPy": 0.8, "SQL": 1.0,
			"Data Science": 1.0, "Machine Learning": 0.6,
		},
		categoryWeights: map[string]float64{
			lexicon.CategoryDatabase: 0.5,
		},
	},
	{
		name: "LLM / RAG Engineer",
		skillWeights: map[string]float64{
			"LangChain": 1.0, "ChromaDB": 1.0, "Machine Learning": 0.8,
		},
		categoryWeights: map[string]float64{
			lexicon.CategoryVectorDB: 1.0,
		},
	},
}

// Suggest returns role names whose score against the skill mapping exceeds
// the minimum threshold, sorted by descending score. Ties keep the fixed
// catalog priority order. An empty mapping yields an empty list.
func Suggest(stats map[string]types.SkillStat) []string {
	if len(stats) == 0 {
		return nil
	}

	type scoredRole struct {
		name     string
		score    float64
		priority int
	}

	var qualified []scoredRole
	for priority, def := range definitions {
		score := scoreRole(def, stats)
		if score > minSuggestScore {
			qualified = append(qualified, scoredRole{name: def.name, score: score, priority: priority})
		}
	}

	sort.Slice(qualified, func(i, j int) bool {
		if qualified[i].score != qualified[j].score {
			return qualified[i].score > qualified[j].score
		}
		return qualified[i].priority < qualified[j].priority
	})

	names := make([]string, 0, len(qualified))
	for _, r := range qualified {
		names = append(names, r.name)
	}
	return names
}

// scoreRole sums weight * min(1, mention_count) * avg_confidence over the
// role's weighted skills present in the mapping.
func scoreRole(def roleDef, stats map[string]types.SkillStat) float64 {
	score := 0.0
	for name, stat := range stats {
		weight := def.skillWeights[name]
		if weight == 0 {
			weight = def.categoryWeights[stat.Category]
		}
		if weight == 0 {
			continue
		}

		presence := 1.0
		if stat.MentionCount < 1 {
			presence = 0
		}
		score += weight * presence * stat.AvgConfidence
	}
	return score
}

// StatsFromMentions converts one turn's mentions into a single-turn skill
// mapping, so role suggestion can also run on an individual message.
func StatsFromMentions(mentions []types.SkillMention) map[string]types.SkillStat {
	stats := make(map[string]types.SkillStat, len(mentions))
	for _, m := range mentions {
		stats[m.Name] = types.SkillStat{
			Name:          m.Name,
			Category:      m.Category,
			MentionCount:  1,
			AvgConfidence: m.Confidence,
		}
	}
	return stats
}
