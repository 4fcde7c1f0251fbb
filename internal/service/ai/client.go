package ai

import (
	"context"
	"fmt"

	"github.com/gatherhall/concierge/backend/internal/config"
	"github.com/gatherhall/concierge/backend/internal/model/chat"
)

// Stream yields the text fragments of one reply. Recv returns io.EOF when
// the backend signals completion; any other error is terminal for the
// exchange. Streams are finite and cannot be restarted.
type Stream interface {
	Recv() (string, error)
	Close()
}

// Client abstracts the generative text backend. StreamReply takes the
// rendered grounding instruction, the prior conversation window (oldest
// first), and the new user message.
type Client interface {
	StreamReply(ctx context.Context, instruction string, turns []chat.Message, message string) (Stream, error)
}

// NewClient builds the adapter for the configured provider.
func NewClient(ctx context.Context, cfg config.AIConfig) (Client, error) {
	switch cfg.Provider {
	case config.ProviderArk:
		return newArkClient(ctx, cfg)
	case config.ProviderOpenAI:
		return newOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", cfg.Provider)
	}
}
