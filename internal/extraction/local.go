// Package extraction turns raw message text into confidence-scored skill
// mentions. It provides a deterministic local extractor, a remote-assisted
// extractor, and the dispatcher that chooses between them.
package extraction

import (
	"strings"
	"unicode"

	"github.com/jonathan/skill-finder/internal/lexicon"
	"github.com/jonathan/skill-finder/internal/types"
)

// Confidence values fixed per match type for the local path.
const (
	confExactMatch  = 0.9
	confPhraseMatch = 0.85
	confFuzzyMatch  = 0.6
)

// maxPhraseLen is the largest multi-word window tried against the lexicon
// ("amazon web services" is the longest catalog alias).
const maxPhraseLen = 3

// token is one whitespace-delimited unit of the input, with its byte offsets
// so evidence can be reported in the original casing.
type token struct {
	text  string
	start int
	end   int
}

// ExtractLocal matches message text against the lexicon and returns
// deduplicated skill mentions. It performs no I/O and never fails; it is the
// unconditional fallback for the remote-assisted path.
func ExtractLocal(text string) []types.SkillMention {
	tokens := tokenize(text)
	var mentions []types.SkillMention

	// Multi-word windows first, longest first, so "machine learning" wins
	// over any single-token interpretation. Phrase windows use exact alias
	// matching only; fuzzy matching is too loose across word boundaries.
	for size := maxPhraseLen; size >= 2; size-- {
		for i := 0; i+size <= len(tokens); i++ {
			phrase := joinWindow(tokens[i : i+size])
			m, ok := lexicon.Canonicalize(phrase)
			if !ok || m.Kind != lexicon.MatchExact {
				continue
			}
			evidence := text[tokens[i].start:tokens[i+size-1].end]
			mentions = append(mentions, types.SkillMention{
				Name:       m.Name,
				Category:   m.Category,
				Confidence: confPhraseMatch,
				Evidence:   evidence,
			})
		}
	}

	for _, tok := range tokens {
		m, ok := lexicon.Canonicalize(tok.text)
		if !ok {
			continue
		}
		conf := confExactMatch
		if m.Kind == lexicon.MatchFuzzy {
			conf = confFuzzyMatch
		}
		mentions = append(mentions, types.SkillMention{
			Name:       m.Name,
			Category:   m.Category,
			Confidence: conf,
			Evidence:   lexicon.TrimToken(tok.text),
		})
	}

	return MergeMentions(mentions)
}

// MergeMentions deduplicates mentions by canonical name, keeping the highest
// confidence and concatenating distinct evidence. First-seen order is
// preserved.
func MergeMentions(mentions []types.SkillMention) []types.SkillMention {
	if len(mentions) == 0 {
		return nil
	}

	index := make(map[string]int, len(mentions))
	merged := make([]types.SkillMention, 0, len(mentions))

	for _, m := range mentions {
		i, seen := index[m.Name]
		if !seen {
			index[m.Name] = len(merged)
			merged = append(merged, m)
			continue
		}
		if m.Confidence > merged[i].Confidence {
			merged[i].Confidence = m.Confidence
		}
		if m.Evidence != "" && m.Evidence != merged[i].Evidence &&
			!strings.Contains(merged[i].Evidence, m.Evidence) {
			if merged[i].Evidence == "" {
				merged[i].Evidence = m.Evidence
			} else {
				merged[i].Evidence += "; " + m.Evidence
			}
		}
	}

	return merged
}

// tokenize splits text on whitespace, recording byte offsets. Surrounding
// punctuation is left attached; the lexicon trims it during lookup, and
// offsets are kept so evidence reflects the original substring.
func tokenize(text string) []token {
	var tokens []token
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, token{text: text[start:i], start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{text: text[start:], start: start, end: len(text)})
	}
	return tokens
}

// joinWindow builds the lookup key for a multi-word window: each token is
// punctuation-trimmed, lowercasing is left to the lexicon.
func joinWindow(window []token) string {
	parts := make([]string, 0, len(window))
	for _, t := range window {
		trimmed := lexicon.TrimToken(t.text)
		if trimmed == "" {
			return "" // punctuation-only token breaks the phrase
		}
		parts = append(parts, trimmed)
	}
	return strings.Join(parts, " ")
}
