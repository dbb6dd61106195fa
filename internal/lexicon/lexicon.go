// Package lexicon provides the static skill catalog and canonicalization of
// surface forms to canonical skill names.
package lexicon

import (
	"sort"
	"strings"
	"unicode"
)

// Category constants define the fixed set of skill categories.
const (
	CategoryLanguage      = "Programming Language"
	CategoryQuery         = "Database / Query"
	CategoryFrontend      = "Frontend Framework"
	CategoryRuntime       = "Backend Runtime"
	CategoryBackend       = "Backend Framework"
	CategoryDatabase      = "Database"
	CategoryCloud         = "Cloud"
	CategoryContainer     = "DevOps / Containerization"
	CategoryOrchestration = "DevOps / Orchestration"
	CategoryDevOps        = "DevOps"
	CategoryML            = "ML / AI"
	CategoryData          = "Data / Analytics"
	CategoryLLM           = "LLM / RAG"
	CategoryVectorDB      = "Vector Database"
	CategoryAPI           = "API / Integration"
	CategorySoftSkill     = "Soft Skill"
	CategoryOther         = "Other"
)

// MatchKind describes how a surface form resolved to a catalog entry.
type MatchKind int

// Match kinds, in decreasing order of reliability.
const (
	MatchExact MatchKind = iota
	MatchFuzzy
)

// Match is the result of a successful canonicalization.
type Match struct {
	Name     string
	Category string
	Kind     MatchKind
}

// Entry defines one catalog skill with the surface forms that resolve to it.
// Aliases match case-insensitively. ExactAliases match case-sensitively and
// exist for short tokens that collide with common words ("go" the verb vs
// "Go" the language).
type Entry struct {
	Name         string
	Category     string
	Aliases      []string
	ExactAliases []string
}

// catalog is the static skill lexicon.
var catalog = []Entry{
	{Name: "Python", Category: CategoryLanguage, Aliases: []string{"python", "py", "python3"}},
	{Name: "Java", Category: CategoryLanguage, Aliases: []string{"java"}},
	{Name: "JavaScript", Category: CategoryLanguage, Aliases: []string{"javascript", "js"}},
	{Name: "TypeScript", Category: CategoryLanguage, Aliases: []string{"typescript", "ts"}},
	{Name: "Go", Category: CategoryLanguage, Aliases: []string{"golang"}, ExactAliases: []string{"Go"}},
	{Name: "SQL", Category: CategoryQuery, Aliases: []string{"sql", "t-sql", "pl/sql"}},
	{Name: "React", Category: CategoryFrontend, Aliases: []string{"react", "reactjs", "react.js"}},
	{Name: "Vue", Category: CategoryFrontend, Aliases: []string{"vue", "vuejs", "vue.js"}},
	{Name: "Node.js", Category: CategoryRuntime, Aliases: []string{"node", "node.js", "nodejs"}},
	{Name: "Express", Category: CategoryBackend, Aliases: []string{"express", "expressjs"}},
	{Name: "FastAPI", Category: CategoryBackend, Aliases: []string{"fastapi"}},
	{Name: "Django", Category: CategoryBackend, Aliases: []string{"django"}},
	{Name: "MongoDB", Category: CategoryDatabase, Aliases: []string{"mongodb", "mongo"}},
	{Name: "PostgreSQL", Category: CategoryDatabase, Aliases: []string{"postgres", "postgresql"}},
	{Name: "MySQL", Category: CategoryDatabase, Aliases: []string{"mysql"}},
	{Name: "SQLite", Category: CategoryDatabase, Aliases: []string{"sqlite"}},
	{Name: "AWS", Category: CategoryCloud, Aliases: []string{"aws", "amazon web services"}},
	{Name: "Azure", Category: CategoryCloud, Aliases: []string{"azure"}},
	{Name: "GCP", Category: CategoryCloud, Aliases: []string{"gcp", "google cloud"}},
	{Name: "Docker", Category: CategoryContainer, Aliases: []string{"docker"}},
	{Name: "Kubernetes", Category: CategoryOrchestration, Aliases: []string{"kubernetes", "k8s"}},
	{Name: "CI/CD", Category: CategoryDevOps, Aliases: []string{"ci/cd", "cicd", "continuous integration", "continuous delivery"}},
	{Name: "GitHub Actions", Category: CategoryDevOps, Aliases: []string{"github actions"}},
	{Name: "Jenkins", Category: CategoryDevOps, Aliases: []string{"jenkins"}},
	{Name: "Terraform", Category: CategoryDevOps, Aliases: []string{"terraform"}},
	{Name: "Machine Learning", Category: CategoryML, Aliases: []string{"machine learning", "ml/ai"}, ExactAliases: []string{"ML"}},
	{Name: "Data Science", Category: CategoryData, Aliases: []string{"data science", "data scientist"}},
	{Name: "Pandas", Category: CategoryData, Aliases: []string{"pandas"}},
	{Name: "NumPy", Category: CategoryData, Aliases: []string{"numpy"}},
	{Name: "LangChain", Category: CategoryLLM, Aliases: []string{"langchain"}},
	{Name: "ChromaDB", Category: CategoryVectorDB, Aliases: []string{"chroma", "chromadb"}},
	{Name: "REST API", Category: CategoryAPI, Aliases: []string{"rest api", "rest apis", "restful"}},
	{Name: "GraphQL", Category: CategoryAPI, Aliases: []string{"graphql"}},
}

var (
	// byAlias maps lowercased case-insensitive aliases to their entry.
	byAlias = make(map[string]Entry)
	// byExact maps case-sensitive aliases and canonical names to their entry.
	byExact = make(map[string]Entry)
	// fuzzyAliases holds the aliases eligible for fuzzy matching, sorted for
	// deterministic lookup order.
	fuzzyAliases []string
	// knownCategories is the fixed category set accepted from the remote path.
	knownCategories = make(map[string]bool)
)

// minFuzzyLen is the minimum token length for fuzzy matching. Shorter tokens
// are too collision-prone ("jav" must not match both "java" and "js").
const minFuzzyLen = 4

// minFuzzyAliasLen is the minimum alias length eligible as a fuzzy target.
// Four-letter aliases sit one edit away from common words ("node" vs "code").
const minFuzzyAliasLen = 5

func init() {
	for _, e := range catalog {
		byExact[e.Name] = e
		for _, a := range e.ExactAliases {
			byExact[a] = e
		}
		for _, a := range e.Aliases {
			byAlias[strings.ToLower(a)] = e
		}
		knownCategories[e.Category] = true
	}
	knownCategories[CategorySoftSkill] = true
	knownCategories[CategoryOther] = true

	for a := range byAlias {
		if len([]rune(a)) >= minFuzzyAliasLen && isAlphabetic(a) {
			fuzzyAliases = append(fuzzyAliases, a)
		}
	}
	sort.Strings(fuzzyAliases)
}

// Canonicalize resolves a surface form to its canonical skill name and
// category. Matching trims surrounding punctuation, tries case-sensitive
// aliases, then case-insensitive aliases, then a restricted fuzzy match
// (edit distance one, alphabetic tokens of at least four characters).
// It never fails; ok is false for unrecognized tokens.
func Canonicalize(surface string) (Match, bool) {
	token := TrimToken(surface)
	if token == "" {
		return Match{}, false
	}

	if e, ok := byExact[token]; ok {
		return Match{Name: e.Name, Category: e.Category, Kind: MatchExact}, true
	}

	lower := strings.ToLower(token)
	if e, ok := byAlias[lower]; ok {
		return Match{Name: e.Name, Category: e.Category, Kind: MatchExact}, true
	}

	if len([]rune(lower)) >= minFuzzyLen && isAlphabetic(lower) {
		for _, alias := range fuzzyAliases {
			if withinOneEdit(lower, alias) {
				e := byAlias[alias]
				return Match{Name: e.Name, Category: e.Category, Kind: MatchFuzzy}, true
			}
		}
	}

	return Match{}, false
}

// NormalizeCategory maps a category string from an untrusted source onto the
// fixed category set, defaulting to CategoryOther rather than rejecting.
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if knownCategories[category] {
		return category
	}
	// Tolerate case drift from the remote model ("programming language").
	for known := range knownCategories {
		if strings.EqualFold(known, category) {
			return known
		}
	}
	return CategoryOther
}

// TrimToken strips surrounding whitespace and punctuation from a surface form
// while preserving interior punctuation ("node.js", "ci/cd").
func TrimToken(s string) string {
	return strings.TrimFunc(strings.TrimSpace(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '+' && r != '#'
	})
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(s) > 0
}

// withinOneEdit reports whether a and b are at most one insertion, deletion,
// or substitution apart.
func withinOneEdit(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(rb)-len(ra) > 1 {
		return false
	}

	if len(ra) == len(rb) {
		diffs := 0
		for i := range ra {
			if ra[i] != rb[i] {
				diffs++
				if diffs > 1 {
					return false
				}
			}
		}
		return true
	}

	// Lengths differ by one: check for a single insertion.
	i, j, edits := 0, 0, 0
	for i < len(ra) && j < len(rb) {
		if ra[i] == rb[j] {
			i++
			j++
			continue
		}
		edits++
		if edits > 1 {
			return false
		}
		j++
	}
	return true
}
