package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/gatherhall/concierge/backend/internal/config"
	"github.com/gatherhall/concierge/backend/internal/model/chat"
)

// arkClient streams replies through an eino chain over an Ark chat model:
// system template, history placeholder, then the query.
type arkClient struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

func newArkClient(ctx context.Context, cfg config.AIConfig) (*arkClient, error) {
	chatModel, err := cfg.NewArkChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &arkClient{chain: runnable}, nil
}

func (c *arkClient) StreamReply(ctx context.Context, instruction string, turns []chat.Message, message string) (Stream, error) {
	input := map[string]any{
		"system":  instruction,
		"history": historyMessages(turns),
		"query":   message,
	}

	reader, err := c.chain.Stream(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to stream chain output: %w", err)
	}
	return &arkStream{reader: reader}, nil
}

func historyMessages(turns []chat.Message) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(turn.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(turn.Content, nil))
		}
	}
	return history
}

type arkStream struct {
	reader *schema.StreamReader[*schema.Message]
}

// Recv skips empty chunks so callers only see renderable text. io.EOF passes
// through unchanged.
func (s *arkStream) Recv() (string, error) {
	for {
		chunk, err := s.reader.Recv()
		if err != nil {
			return "", err
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}
		return chunk.Content, nil
	}
}

func (s *arkStream) Close() {
	s.reader.Close()
}
