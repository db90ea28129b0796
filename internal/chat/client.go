package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/okynos/localchat/internal/history"
)

// GenerationParams are the tunable knobs sent with every completion request.
// They come from the active profile and are never overridden per message.
type GenerationParams struct {
	Model            string
	Temperature      float32
	MaxTokens        int
	TopP             float32
	FrequencyPenalty float32
}

// Completer is the completion backend as seen by the session controller.
type Completer interface {
	Complete(ctx context.Context, messages []history.Message, params GenerationParams) (string, error)
}

// Client adapts the OpenAI-compatible completion endpoint. It is stateless
// between invocations and performs no retries; retry policy belongs to the
// caller.
type Client struct {
	api *openai.Client
}

func NewClient(apiKey, baseURL string) *Client {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &Client{api: openai.NewClientWithConfig(clientConfig)}
}

// Complete sends the whole conversation-so-far and returns the content of the
// first choice. A response without choices is an error, not an empty answer.
func (c *Client) Complete(ctx context.Context, messages []history.Message, params GenerationParams) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:            params.Model,
		Messages:         toChatMessages(messages),
		Temperature:      params.Temperature,
		MaxTokens:        params.MaxTokens,
		TopP:             params.TopP,
		FrequencyPenalty: params.FrequencyPenalty,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: response contains no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func toChatMessages(messages []history.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		result[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}
	return result
}
