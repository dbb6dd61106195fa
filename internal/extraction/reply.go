package extraction

import (
	"fmt"
	"strings"

	"github.com/jonathan/skill-finder/internal/roles"
	"github.com/jonathan/skill-finder/internal/types"
)

// greetings are messages that get a welcome reply instead of the no-skills
// nudge.
var greetings = map[string]bool{
	"hi":        true,
	"hello":     true,
	"hey":       true,
	"hii":       true,
	"hey there": true,
	"hola":      true,
}

// FallbackReply builds the assistant reply for the local path. The remote
// path produces its own reply text; this one is fully deterministic.
func FallbackReply(message string, mentions []types.SkillMention) string {
	trimmed := strings.ToLower(strings.TrimSpace(message))

	if len(mentions) == 0 && greetings[trimmed] {
		return "Hey! I'm your skill assistant.\n\n" +
			"Tell me about your experience or paste a resume bullet, and I'll identify " +
			"your key skills and suggest matching roles."
	}

	if len(mentions) == 0 {
		return "Thanks for sharing! I didn't catch specific technologies from that message.\n\n" +
			"Try mentioning some languages (Python, JavaScript), frameworks (React, FastAPI, Django), " +
			"databases (MongoDB, PostgreSQL), or cloud tools (AWS, Docker), and I'll extract skills " +
			"and build your profile."
	}

	names := make([]string, 0, len(mentions))
	for _, m := range mentions {
		names = append(names, m.Name)
	}

	suggested := roles.Suggest(roles.StatsFromMentions(mentions))
	rolesPart := "This combination of skills can map to multiple roles depending on your interests and experience."
	if len(suggested) > 0 {
		rolesPart = fmt.Sprintf("From this stack, some good role targets could be: %s.", strings.Join(suggested, ", "))
	}

	return fmt.Sprintf("Nice, thanks for the context!\n\n"+
		"I can clearly see these skills in your message: %s.\n%s\n\n"+
		"What kind of roles are you aiming for (backend, full-stack, data, DevOps, AI/RAG)? "+
		"I can help you map your skills to those roles and suggest what to learn next.",
		strings.Join(names, ", "), rolesPart)
}
