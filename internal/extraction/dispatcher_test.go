package extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonathan/skill-finder/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_LocalWhenRemoteDisabled(t *testing.T) {
	called := false
	client := &MockLLMClient{
		CompleteJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			called = true
			return `{"assistant_response": "remote", "skills": []}`, nil
		},
	}
	d := NewDispatcher(NewRemoteExtractor(client, &stubRetriever{}), time.Second)

	result := d.Extract(context.Background(), "py reactjs", false, nil)

	assert.False(t, called, "useRemote=false must not touch the network")
	assert.Len(t, result.Mentions, 2)
	assert.NotEmpty(t, result.Reply)
}

func TestDispatcher_LocalWhenRemoteNotConfigured(t *testing.T) {
	d := NewDispatcher(nil, 0)

	assert.False(t, d.RemoteAvailable())

	result := d.Extract(context.Background(), "docker k8s", true, nil)
	require.Len(t, result.Mentions, 2)
}

func TestDispatcher_RemoteSuccess(t *testing.T) {
	client := &MockLLMClient{
		CompleteJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return `{
				"assistant_response": "I see Python!",
				"skills": [{"name": "Python", "category": "Programming Language", "confidence": 0.92, "evidence": "python"}]
			}`, nil
		},
	}
	d := NewDispatcher(NewRemoteExtractor(client, &stubRetriever{}), time.Second)

	result := d.Extract(context.Background(), "I love python", true, nil)
	assert.Equal(t, "I see Python!", result.Reply)
	require.Len(t, result.Mentions, 1)
	assert.Equal(t, 0.92, result.Mentions[0].Confidence)
}

func TestDispatcher_FallbackEqualsLocalResult(t *testing.T) {
	message := "py reactjs aws docker"

	failures := map[string]*MockLLMClient{
		"transport error": {
			CompleteJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
				return "", errors.New("connection refused")
			},
		},
		"malformed output": {
			CompleteJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
				return "here is some prose instead of JSON", nil
			},
		},
	}

	want := ExtractLocal(message)
	for name, client := range failures {
		t.Run(name, func(t *testing.T) {
			d := NewDispatcher(NewRemoteExtractor(client, &stubRetriever{}), time.Second)

			result := d.Extract(context.Background(), message, true, nil)
			assert.Equal(t, want, result.Mentions)
			assert.Equal(t, FallbackReply(message, want), result.Reply)
		})
	}
}

func TestDispatcher_TimeoutFallsBackLocally(t *testing.T) {
	client := &MockLLMClient{
		CompleteJSONFunc: func(ctx context.Context, _ string, _ llm.ModelTier) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	d := NewDispatcher(NewRemoteExtractor(client, &stubRetriever{}), 10*time.Millisecond)

	result := d.Extract(context.Background(), "docker", true, nil)
	require.Len(t, result.Mentions, 1)
	assert.Equal(t, "Docker", result.Mentions[0].Name)
}

func TestDispatcher_EmptyMentionsIsValidResult(t *testing.T) {
	d := NewDispatcher(nil, 0)

	result := d.Extract(context.Background(), "nothing technical here", false, nil)
	assert.Empty(t, result.Mentions)
	assert.NotEmpty(t, result.Reply)
}

func TestFallbackReply_Greeting(t *testing.T) {
	reply := FallbackReply("hello", nil)
	assert.Contains(t, reply, "skill assistant")
}

func TestFallbackReply_NoSkills(t *testing.T) {
	reply := FallbackReply("I had a great weekend", nil)
	assert.Contains(t, reply, "didn't catch specific technologies")
}

func TestFallbackReply_WithSkillsAndRoles(t *testing.T) {
	mentions := ExtractLocal("docker kubernetes aws")
	reply := FallbackReply("docker kubernetes aws", mentions)

	assert.Contains(t, reply, "Docker")
	assert.Contains(t, reply, "Kubernetes")
	assert.Contains(t, reply, "DevOps / Cloud Engineer")
}
