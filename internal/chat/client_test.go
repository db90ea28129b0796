package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okynos/localchat/internal/history"
)

var testParams = GenerationParams{
	Model:            "gpt-4o-mini",
	Temperature:      0.7,
	MaxTokens:        512,
	TopP:             1.0,
	FrequencyPenalty: 0.2,
}

func TestClient_Complete(t *testing.T) {
	var gotRequest struct {
		Model            string  `json:"model"`
		Temperature      float32 `json:"temperature"`
		MaxTokens        int     `json:"max_tokens"`
		TopP             float32 `json:"top_p"`
		FrequencyPenalty float32 `json:"frequency_penalty"`
		Messages         []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		fmt.Fprint(w, `{
			"id": "cmpl-1",
			"object": "chat.completion",
			"choices": [
				{"index": 0, "message": {"role": "assistant", "content": "Hi there"}, "finish_reason": "stop"}
			]
		}`)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL+"/v1")
	answer, err := client.Complete(context.Background(), []history.Message{
		{Role: history.RoleUser, Content: "Hello"},
	}, testParams)

	require.NoError(t, err)
	assert.Equal(t, "Hi there", answer)

	// Generation parameters pass through unchanged.
	assert.Equal(t, "gpt-4o-mini", gotRequest.Model)
	assert.InDelta(t, 0.7, gotRequest.Temperature, 0.001)
	assert.Equal(t, 512, gotRequest.MaxTokens)
	assert.InDelta(t, 1.0, gotRequest.TopP, 0.001)
	assert.InDelta(t, 0.2, gotRequest.FrequencyPenalty, 0.001)

	require.Len(t, gotRequest.Messages, 1)
	assert.Equal(t, "user", gotRequest.Messages[0].Role)
	assert.Equal(t, "Hello", gotRequest.Messages[0].Content)
}

func TestClient_Complete_FirstChoiceWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"choices": [
				{"index": 0, "message": {"role": "assistant", "content": "first"}},
				{"index": 1, "message": {"role": "assistant", "content": "second"}}
			]
		}`)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL+"/v1")
	answer, err := client.Complete(context.Background(), []history.Message{
		{Role: history.RoleUser, Content: "Hello"},
	}, testParams)

	require.NoError(t, err)
	assert.Equal(t, "first", answer)
}

func TestClient_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices": []}`)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL+"/v1")
	_, err := client.Complete(context.Background(), []history.Message{
		{Role: history.RoleUser, Content: "Hello"},
	}, testParams)

	assert.Error(t, err)
}

func TestClient_Complete_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL+"/v1")
	_, err := client.Complete(context.Background(), []history.Message{
		{Role: history.RoleUser, Content: "Hello"},
	}, testParams)

	assert.Error(t, err)
}
