package history

import (
	"context"
	"fmt"

	"github.com/gatherhall/concierge/backend/internal/model/chat"
	"github.com/gatherhall/concierge/backend/internal/store"
)

// DefaultWindow bounds the conversation slice handed to the generation
// backend, independent of how long the persisted log grows.
const DefaultWindow = 50

// Service maintains the per-attendee conversation log: a bounded recent
// window for generation context, append-only writes for each turn.
type Service struct {
	store store.MessageStore
	limit int
}

// NewService wraps the message store. A non-positive limit falls back to
// DefaultWindow.
func NewService(messageStore store.MessageStore, limit int) *Service {
	if limit <= 0 {
		limit = DefaultWindow
	}
	return &Service{store: messageStore, limit: limit}
}

// Window returns the user's most recent turns, oldest first, capped at the
// configured bound.
func (s *Service) Window(ctx context.Context, userID string) ([]chat.Message, error) {
	messages, err := s.store.RecentMessages(ctx, userID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("loading conversation window: %w", err)
	}
	return messages, nil
}

// Append records one turn and returns it with ID and timestamp assigned.
func (s *Service) Append(ctx context.Context, userID, role, content string) (chat.Message, error) {
	msg := chat.Message{
		UserID:  userID,
		Role:    role,
		Content: content,
	}
	if err := s.store.AppendMessage(ctx, &msg); err != nil {
		return chat.Message{}, fmt.Errorf("appending %s turn: %w", role, err)
	}
	return msg, nil
}
