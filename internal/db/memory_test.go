package db

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-finder/internal/types"
)

func TestMemoryStore_AppendAssignsSequence(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.AppendTurn(ctx, types.ConversationTurn{SessionID: "s1", UserText: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Seq)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := store.AppendTurn(ctx, types.ConversationTurn{SessionID: "s1", UserText: "again"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Seq)

	// Sequences are per session, not global.
	other, err := store.AppendTurn(ctx, types.ConversationTurn{SessionID: "s2", UserText: "hi"})
	require.NoError(t, err)
	assert.Equal(t, 1, other.Seq)
}

func TestMemoryStore_ListTurnsOrdered(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.AppendTurn(ctx, types.ConversationTurn{
			SessionID: "s1",
			UserText:  fmt.Sprintf("message %d", i),
		})
		require.NoError(t, err)
	}

	turns, err := store.ListTurns(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 5)
	for i, turn := range turns {
		assert.Equal(t, i+1, turn.Seq)
		assert.Equal(t, fmt.Sprintf("message %d", i), turn.UserText)
	}
}

func TestMemoryStore_UnknownSessionIsEmpty(t *testing.T) {
	store := NewMemoryStore()

	turns, err := store.ListTurns(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestMemoryStore_ListReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.AppendTurn(ctx, types.ConversationTurn{SessionID: "s1", UserText: "original"})
	require.NoError(t, err)

	turns, err := store.ListTurns(ctx, "s1")
	require.NoError(t, err)
	turns[0].UserText = "mutated"

	fresh, err := store.ListTurns(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "original", fresh[0].UserText)
}

func TestMemoryStore_DeleteSession(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.AppendTurn(ctx, types.ConversationTurn{SessionID: "s1", UserText: "hello"})
	require.NoError(t, err)
	_, err = store.AppendTurn(ctx, types.ConversationTurn{SessionID: "s2", UserText: "hello"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteSession(ctx, "s1"))

	turns, err := store.ListTurns(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, turns)

	// Other sessions are untouched.
	turns, err = store.ListTurns(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, turns, 1)

	// Deleting an unknown session is not an error.
	assert.NoError(t, store.DeleteSession(ctx, "missing"))

	// A deleted session starts its sequence over.
	turn, err := store.AppendTurn(ctx, types.ConversationTurn{SessionID: "s1", UserText: "restart"})
	require.NoError(t, err)
	assert.Equal(t, 1, turn.Seq)
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.AppendTurn(ctx, types.ConversationTurn{SessionID: "s1", UserText: "x"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	turns, err := store.ListTurns(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 20)

	seen := make(map[int]bool)
	for _, turn := range turns {
		assert.False(t, seen[turn.Seq], "duplicate seq %d", turn.Seq)
		seen[turn.Seq] = true
	}
}
