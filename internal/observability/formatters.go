// Package observability provides formatted output utilities for the chat CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/skill-finder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMentions outputs the skills detected in one message.
func (p *Printer) PrintMentions(mentions []types.SkillMention) {
	if len(mentions) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Detected %d skills:\n\n", len(mentions)))

	count := min(len(mentions), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := mentions[i]
		sb.WriteString(fmt.Sprintf("• %s (%s)\n", m.Name, m.Category))
		sb.WriteString(fmt.Sprintf("  Confidence: %.2f", m.Confidence))
		if m.Evidence != "" {
			evidence := m.Evidence
			if len(evidence) > 30 {
				evidence = evidence[:27] + "..."
			}
			sb.WriteString(fmt.Sprintf("  Evidence: %q", evidence))
		}
		sb.WriteString("\n")
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(mentions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more skills", len(mentions)-maxItemsToShow))
	}

	p.printBox("DETECTED SKILLS", sb.String())
}

// PrintProfile outputs a human-readable summary of a session's skill profile.
func (p *Printer) PrintProfile(profile *types.SkillProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Session:  %s\n", profile.SessionID))
	sb.WriteString(fmt.Sprintf("Turns:    %d\n", profile.TotalTurns))
	sb.WriteString(fmt.Sprintf("Skills:   %d\n", profile.TotalSkills))
	sb.WriteString("\n")

	if len(profile.Skills) > 0 {
		sb.WriteString("Top skills:\n")
		count := min(len(profile.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			s := profile.Skills[i]
			sb.WriteString(fmt.Sprintf("  • %s ×%d (avg %.2f)\n", s.Name, s.MentionCount, s.AvgConfidence))
		}
		if len(profile.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Skills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(profile.SuggestedRoles) > 0 {
		sb.WriteString("Suggested roles:\n")
		for _, role := range profile.SuggestedRoles {
			sb.WriteString(fmt.Sprintf("  • %s\n", role))
		}
	}

	p.printBox("SKILL PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatchReport outputs the result of a candidate-vs-job comparison.
func (p *Printer) PrintMatchReport(report *types.MatchReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match score: %.0f%%\n\n", report.MatchScore*100))

	writeList := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString(label + ":\n")
		count := min(len(items), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
		}
		if len(items) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
		}
	}
	writeList("Matched", report.MatchedSkills)
	writeList("Missing", report.MissingSkills)
	writeList("Extra", report.ExtraSkills)

	p.printBox("MATCH REPORT", strings.TrimSuffix(sb.String(), "\n"))
}
