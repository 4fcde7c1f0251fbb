package ai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/gatherhall/concierge/backend/internal/config"
	"github.com/gatherhall/concierge/backend/internal/model/chat"
)

// openAIClient streams chat completions from an OpenAI-compatible endpoint
// (OpenAI itself, or OpenRouter-style gateways via OPENAI_BASE_URL).
type openAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature *float64
}

func newOpenAIClient(cfg config.AIConfig) *openAIClient {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}

	return &openAIClient{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.OpenAIModel,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func (c *openAIClient) StreamReply(ctx context.Context, instruction string, turns []chat.Message, message string) (Stream, error) {
	req := openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  completionMessages(instruction, turns, message),
		MaxTokens: c.maxTokens,
		Stream:    true,
	}
	if c.temperature != nil {
		req.Temperature = float32(*c.temperature)
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to open completion stream: %w", err)
	}
	return &openAIStream{stream: stream}, nil
}

func completionMessages(instruction string, turns []chat.Message, message string) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: instruction,
	})
	for _, turn := range turns {
		switch turn.Role {
		case chat.RoleUser, chat.RoleAssistant:
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    turn.Role,
				Content: turn.Content,
			})
		}
	}
	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})
}

type openAIStream struct {
	stream *openai.ChatCompletionStream
}

// Recv skips keepalive chunks without delta text. io.EOF passes through on
// normal completion.
func (s *openAIStream) Recv() (string, error) {
	for {
		resp, err := s.stream.Recv()
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		return delta, nil
	}
}

func (s *openAIStream) Close() {
	_ = s.stream.Close()
}
