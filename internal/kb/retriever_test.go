package kb

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieve_RelevantSnippets(t *testing.T) {
	r := NewRetriever(5)

	snippets, err := r.Retrieve(context.Background(), "I deploy python services with docker")
	require.NoError(t, err)
	require.NotEmpty(t, snippets)
	assert.LessOrEqual(t, len(snippets), 5)

	joined := strings.ToLower(strings.Join(snippets, "\n"))
	assert.Contains(t, joined, "python")
	assert.Contains(t, joined, "docker")
}

func TestRetrieve_HeadingTermsSurfaceSectionLines(t *testing.T) {
	r := NewRetriever(10)

	snippets, err := r.Retrieve(context.Background(), "cloud experience")
	require.NoError(t, err)
	require.NotEmpty(t, snippets)

	joined := strings.Join(snippets, "\n")
	assert.Contains(t, joined, "AWS")
}

func TestRetrieve_NoOverlapReturnsEmpty(t *testing.T) {
	r := NewRetriever(5)

	snippets, err := r.Retrieve(context.Background(), "zzzz qqqq")
	require.NoError(t, err)
	assert.Empty(t, snippets)
}

func TestRetrieve_EmptyQuery(t *testing.T) {
	r := NewRetriever(5)

	snippets, err := r.Retrieve(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, snippets)
}

func TestRetrieve_RespectsLimit(t *testing.T) {
	r := NewRetriever(2)

	snippets, err := r.Retrieve(context.Background(), "python javascript java sql react docker aws")
	require.NoError(t, err)
	assert.Len(t, snippets, 2)
}

func TestRetrieve_CancelledContext(t *testing.T) {
	r := NewRetriever(5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Retrieve(ctx, "python")
	assert.Error(t, err)
}

func TestNewRetriever_DefaultLimit(t *testing.T) {
	r := NewRetriever(0)
	assert.Equal(t, DefaultLimit, r.limit)
}
