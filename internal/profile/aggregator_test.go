package profile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-finder/internal/db"
	"github.com/jonathan/skill-finder/internal/types"
)

func mention(name, category string, confidence float64) types.SkillMention {
	return types.SkillMention{Name: name, Category: category, Confidence: confidence, Evidence: name}
}

func TestAggregator_EmptySessionProfile(t *testing.T) {
	agg := NewAggregator(db.NewMemoryStore())

	prof, err := agg.Profile(context.Background(), "unknown")
	require.NoError(t, err)

	assert.Equal(t, "unknown", prof.SessionID)
	assert.Equal(t, 0, prof.TotalTurns)
	assert.Equal(t, 0, prof.TotalSkills)
	assert.Empty(t, prof.Skills)
	assert.Empty(t, prof.SuggestedRoles)
}

func TestAggregator_RunningMeanConfidence(t *testing.T) {
	agg := NewAggregator(db.NewMemoryStore())
	ctx := context.Background()

	for _, conf := range []float64{0.9, 0.6, 0.9} {
		_, err := agg.RecordTurn(ctx, "s1", "docker again", "Noted.", []types.SkillMention{
			mention("Docker", "DevOps / Containerization", conf),
		})
		require.NoError(t, err)
	}

	prof, err := agg.Profile(ctx, "s1")
	require.NoError(t, err)

	require.Len(t, prof.Skills, 1)
	assert.Equal(t, "Docker", prof.Skills[0].Name)
	assert.Equal(t, 3, prof.Skills[0].MentionCount)
	assert.InDelta(t, 0.8, prof.Skills[0].AvgConfidence, 1e-9)
	assert.Equal(t, 3, prof.TotalTurns)
	assert.Equal(t, 1, prof.TotalSkills)
}

func TestAggregator_SkillsSortedByCountThenConfidence(t *testing.T) {
	agg := NewAggregator(db.NewMemoryStore())
	ctx := context.Background()

	_, err := agg.RecordTurn(ctx, "s1", "a", "r", []types.SkillMention{
		mention("Python", "Programming Language", 0.9),
		mention("React", "Frontend Framework", 0.6),
		mention("AWS", "Cloud", 0.9),
	})
	require.NoError(t, err)
	_, err = agg.RecordTurn(ctx, "s1", "b", "r", []types.SkillMention{
		mention("Python", "Programming Language", 0.9),
	})
	require.NoError(t, err)

	prof, err := agg.Profile(ctx, "s1")
	require.NoError(t, err)

	require.Len(t, prof.Skills, 3)
	assert.Equal(t, "Python", prof.Skills[0].Name)
	// Equal counts fall back to average confidence.
	assert.Equal(t, "AWS", prof.Skills[1].Name)
	assert.Equal(t, "React", prof.Skills[2].Name)
}

func TestAggregator_SessionsAreIsolated(t *testing.T) {
	agg := NewAggregator(db.NewMemoryStore())
	ctx := context.Background()

	_, err := agg.RecordTurn(ctx, "s1", "a", "r", []types.SkillMention{
		mention("Python", "Programming Language", 0.9),
	})
	require.NoError(t, err)
	_, err = agg.RecordTurn(ctx, "s2", "b", "r", []types.SkillMention{
		mention("Docker", "DevOps / Containerization", 0.9),
	})
	require.NoError(t, err)

	prof, err := agg.Profile(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, prof.Skills, 1)
	assert.Equal(t, "Python", prof.Skills[0].Name)
}

func TestAggregator_SuggestedRoles(t *testing.T) {
	agg := NewAggregator(db.NewMemoryStore())
	ctx := context.Background()

	_, err := agg.RecordTurn(ctx, "s1", "docker and kubernetes", "r", []types.SkillMention{
		mention("Docker", "DevOps / Containerization", 0.9),
		mention("Kubernetes", "DevOps / Containerization", 0.9),
	})
	require.NoError(t, err)

	prof, err := agg.Profile(ctx, "s1")
	require.NoError(t, err)
	assert.Contains(t, prof.SuggestedRoles, "DevOps / Cloud Engineer")
}

func TestAggregator_TurnsWithoutSkillsStillCount(t *testing.T) {
	agg := NewAggregator(db.NewMemoryStore())
	ctx := context.Background()

	_, err := agg.RecordTurn(ctx, "s1", "hello", "Hi there!", nil)
	require.NoError(t, err)

	prof, err := agg.Profile(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, prof.TotalTurns)
	assert.Equal(t, 0, prof.TotalSkills)
	assert.Empty(t, prof.Skills)
}

func TestAggregator_HistoryPreservesOrder(t *testing.T) {
	agg := NewAggregator(db.NewMemoryStore())
	ctx := context.Background()

	_, err := agg.RecordTurn(ctx, "s1", "first", "r1", nil)
	require.NoError(t, err)
	_, err = agg.RecordTurn(ctx, "s1", "second", "r2", nil)
	require.NoError(t, err)

	turns, err := agg.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, 1, turns[0].Seq)
	assert.Equal(t, "first", turns[0].UserText)
	assert.Equal(t, 2, turns[1].Seq)
	assert.Equal(t, "second", turns[1].UserText)
}

func TestAggregator_DeleteSessionResetsProfile(t *testing.T) {
	agg := NewAggregator(db.NewMemoryStore())
	ctx := context.Background()

	_, err := agg.RecordTurn(ctx, "s1", "python", "r", []types.SkillMention{
		mention("Python", "Programming Language", 0.9),
	})
	require.NoError(t, err)

	require.NoError(t, agg.DeleteSession(ctx, "s1"))

	prof, err := agg.Profile(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, prof.TotalTurns)
	assert.Empty(t, prof.Skills)
}

func TestAggregator_ConcurrentRecordTurns(t *testing.T) {
	agg := NewAggregator(db.NewMemoryStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := agg.RecordTurn(ctx, "s1", "docker", "r", []types.SkillMention{
				mention("Docker", "DevOps / Containerization", 0.9),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	prof, err := agg.Profile(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 25, prof.TotalTurns)
	require.Len(t, prof.Skills, 1)
	assert.Equal(t, 25, prof.Skills[0].MentionCount)
	assert.InDelta(t, 0.9, prof.Skills[0].AvgConfidence, 1e-9)
}

type failingStore struct{}

func (failingStore) AppendTurn(context.Context, types.ConversationTurn) (types.ConversationTurn, error) {
	return types.ConversationTurn{}, errors.New("store down")
}

func (failingStore) ListTurns(context.Context, string) ([]types.ConversationTurn, error) {
	return nil, errors.New("store down")
}

func (failingStore) DeleteSession(context.Context, string) error {
	return errors.New("store down")
}

func TestAggregator_StoreErrorsPropagate(t *testing.T) {
	agg := NewAggregator(failingStore{})
	ctx := context.Background()

	_, err := agg.RecordTurn(ctx, "s1", "a", "r", nil)
	assert.ErrorContains(t, err, "store down")

	_, err = agg.Profile(ctx, "s1")
	assert.ErrorContains(t, err, "store down")

	assert.ErrorContains(t, agg.DeleteSession(ctx, "s1"), "store down")
}
