package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-finder/internal/extraction"
)

func localDispatcher() *extraction.Dispatcher {
	return extraction.NewDispatcher(nil, 0)
}

func TestCompare_FullMatch(t *testing.T) {
	report, err := Compare(context.Background(), localDispatcher(),
		"I build services in Python and deploy with Docker",
		"Looking for Python and Docker experience",
		false)
	require.NoError(t, err)

	assert.Equal(t, 1.0, report.MatchScore)
	assert.Equal(t, []string{"docker", "python"}, report.MatchedSkills)
	assert.Empty(t, report.MissingSkills)
}

func TestCompare_PartialMatch(t *testing.T) {
	report, err := Compare(context.Background(), localDispatcher(),
		"I know Python and React",
		"Need Python, Kubernetes, and AWS",
		false)
	require.NoError(t, err)

	assert.InDelta(t, 1.0/3.0, report.MatchScore, 1e-9)
	assert.Equal(t, []string{"python"}, report.MatchedSkills)
	assert.Equal(t, []string{"aws", "kubernetes"}, report.MissingSkills)
	assert.Equal(t, []string{"react"}, report.ExtraSkills)
}

func TestCompare_NoJobSkills(t *testing.T) {
	report, err := Compare(context.Background(), localDispatcher(),
		"I know Python",
		"We want a friendly and motivated person",
		false)
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.MatchScore)
	assert.Empty(t, report.MatchedSkills)
	assert.Empty(t, report.MissingSkills)
	assert.Equal(t, []string{"python"}, report.ExtraSkills)
}

func TestCompare_AliasesCollapseToCanonicalNames(t *testing.T) {
	// "py" and "Python" name the same skill after canonicalization.
	report, err := Compare(context.Background(), localDispatcher(),
		"I mostly write py",
		"Python required",
		false)
	require.NoError(t, err)

	assert.Equal(t, 1.0, report.MatchScore)
	assert.Equal(t, []string{"python"}, report.MatchedSkills)
}

func TestCompare_ReportsBothExtractions(t *testing.T) {
	report, err := Compare(context.Background(), localDispatcher(),
		"Python and PostgreSQL",
		"Python",
		false)
	require.NoError(t, err)

	assert.Len(t, report.CandidateSkills, 2)
	assert.Len(t, report.JobSkills, 1)
}

func TestCompare_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Compare(ctx, localDispatcher(), "Python", "Python", false)
	assert.ErrorIs(t, err, context.Canceled)
}
