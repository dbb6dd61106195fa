package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/skill-finder/internal/lexicon"
	"github.com/jonathan/skill-finder/internal/llm"
	"github.com/jonathan/skill-finder/internal/prompts"
	"github.com/jonathan/skill-finder/internal/schemas"
	"github.com/jonathan/skill-finder/internal/types"
)

// Retriever returns ranked reference snippets for a query. The remote path
// uses them as prompt context; a retrieval failure aborts the remote path.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]string, error)
}

// historyWindow bounds how many recent turns are included as conversation
// context in the prompt.
const historyWindow = 4

// RemoteExtractor builds a knowledge-base-augmented prompt, invokes the
// remote model, and strictly parses its response. Model output is untrusted
// input: anything that fails schema validation is an error, never a crash.
type RemoteExtractor struct {
	client    llm.Client
	retriever Retriever
}

// NewRemoteExtractor creates a remote-assisted extractor.
func NewRemoteExtractor(client llm.Client, retriever Retriever) *RemoteExtractor {
	return &RemoteExtractor{client: client, retriever: retriever}
}

// extractionPayload is the expected shape of the model's JSON response.
type extractionPayload struct {
	AssistantResponse string         `json:"assistant_response"`
	Skills            []payloadSkill `json:"skills"`
}

type payloadSkill struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence"`
}

// Extract runs the remote-assisted path for one message. Any error means the
// whole result is discarded; the caller substitutes the local extractor.
// Partial results are never returned alongside an error.
func (e *RemoteExtractor) Extract(ctx context.Context, text string, history []types.ConversationTurn) (string, []types.SkillMention, error) {
	snippets, err := e.retriever.Retrieve(ctx, text)
	if err != nil {
		return "", nil, fmt.Errorf("knowledge base retrieval failed: %w", err)
	}

	prompt, err := buildPrompt(text, snippets, history)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	raw, err := e.client.CompleteJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", nil, fmt.Errorf("model call failed: %w", err)
	}

	if err := schemas.ValidateExtraction(raw); err != nil {
		return "", nil, fmt.Errorf("model response failed schema validation: %w", err)
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "", nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	return payload.AssistantResponse, normalizeMentions(payload.Skills), nil
}

// buildPrompt combines the system instruction, retrieved snippets, recent
// conversation, and the message into one prompt.
func buildPrompt(text string, snippets []string, history []types.ConversationTurn) (string, error) {
	system, err := prompts.Get("extraction.json", "skill_extraction_system")
	if err != nil {
		return "", err
	}
	user, err := prompts.Get("extraction.json", "skill_extraction_user")
	if err != nil {
		return "", err
	}

	kbContext := "(none)"
	if len(snippets) > 0 {
		kbContext = strings.Join(snippets, "\n")
	}

	return system + "\n\n" + prompts.Format(user, map[string]string{
		"Context": kbContext,
		"History": formatHistory(history),
		"Message": text,
	}), nil
}

func formatHistory(history []types.ConversationTurn) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	if len(history) == 0 {
		return "(none)"
	}

	var sb strings.Builder
	for _, turn := range history {
		sb.WriteString("user: ")
		sb.WriteString(turn.UserText)
		sb.WriteString("\nassistant: ")
		sb.WriteString(turn.BotReply)
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// normalizeMentions converts validated payload skills into SkillMentions.
// Confidence is clamped into [0,1], unrecognized categories map to Other,
// and names the lexicon recognizes are canonicalized so the merge invariant
// holds across both extraction paths.
func normalizeMentions(skills []payloadSkill) []types.SkillMention {
	mentions := make([]types.SkillMention, 0, len(skills))
	for _, s := range skills {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}

		category := lexicon.NormalizeCategory(s.Category)
		if m, ok := lexicon.Canonicalize(name); ok {
			name = m.Name
			category = m.Category
		}

		mentions = append(mentions, types.SkillMention{
			Name:       name,
			Category:   category,
			Confidence: clamp01(s.Confidence),
			Evidence:   strings.TrimSpace(s.Evidence),
		})
	}
	return MergeMentions(mentions)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
