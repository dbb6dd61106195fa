// Package kb provides the knowledge base retriever: given a query string it
// returns a ranked, bounded list of reference snippets from the embedded
// skills corpus. The remote-assisted extraction path uses these snippets as
// prompt context.
package kb

import (
	"context"
	_ "embed"
	"sort"
	"strings"
	"unicode"
)

//go:embed skills_knowledge_base.md
var corpus string

// DefaultLimit is the default maximum number of snippets returned per query.
const DefaultLimit = 5

// snippet is one retrievable line of the corpus with its scoring terms.
type snippet struct {
	text  string
	terms map[string]bool
}

// Retriever ranks corpus snippets by lexical overlap with the query.
type Retriever struct {
	snippets []snippet
	limit    int
}

// NewRetriever parses the embedded corpus. limit bounds the number of
// snippets per query; non-positive values use DefaultLimit.
func NewRetriever(limit int) *Retriever {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Retriever{snippets: parseCorpus(corpus), limit: limit}
}

// Retrieve returns up to limit snippets relevant to the query, most relevant
// first. An empty result is valid; it means nothing in the corpus overlapped
// with the query.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	queryTerms := termSet(query)
	if len(queryTerms) == 0 {
		return nil, nil
	}

	type scored struct {
		idx   int
		score int
	}
	var hits []scored
	for i, s := range r.snippets {
		score := 0
		for term := range queryTerms {
			if s.terms[term] {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{idx: i, score: score})
		}
	}

	// Rank by overlap, corpus order as the deterministic tiebreak.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	if len(hits) > r.limit {
		hits = hits[:r.limit]
	}

	results := make([]string, 0, len(hits))
	for _, h := range hits {
		results = append(results, r.snippets[h.idx].text)
	}
	return results, nil
}

// parseCorpus splits the markdown corpus into bullet-line snippets. Each
// snippet inherits the terms of its section heading so a query like "cloud"
// also surfaces the AWS and GCP lines.
func parseCorpus(text string) []snippet {
	var snippets []snippet
	var headingTerms map[string]bool

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "## "):
			headingTerms = termSet(strings.TrimPrefix(line, "## "))
		case strings.HasPrefix(line, "- "):
			body := strings.TrimPrefix(line, "- ")
			terms := termSet(body)
			for t := range headingTerms {
				terms[t] = true
			}
			snippets = append(snippets, snippet{text: body, terms: terms})
		}
	}
	return snippets
}

// termSet lowercases and splits text into a set of alphanumeric terms.
func termSet(text string) map[string]bool {
	terms := make(map[string]bool)
	for _, field := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		if len(field) > 1 {
			terms[field] = true
		}
	}
	return terms
}
