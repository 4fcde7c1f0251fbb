package store

import (
	"context"
	"errors"

	"github.com/gatherhall/concierge/backend/internal/model/chat"
	"github.com/gatherhall/concierge/backend/internal/model/event"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// EventStore exposes the read-only event context the assistant grounds its
// replies on. Admin tooling writes these records out of band.
type EventStore interface {
	GetEventInfo(ctx context.Context) (event.EventInfo, error)
	ListItinerary(ctx context.Context) ([]event.ItineraryItem, error)
	ListChecklist(ctx context.Context) ([]event.ChecklistItem, error)
}

// MessageStore is the append-only per-attendee chat log.
type MessageStore interface {
	// RecentMessages returns up to limit most recent messages for the user,
	// ordered oldest first.
	RecentMessages(ctx context.Context, userID string, limit int) ([]chat.Message, error)
	// AppendMessage persists one turn, filling in ID and CreatedAt when unset.
	AppendMessage(ctx context.Context, msg *chat.Message) error
}

// Store combines every persistence concern of the portal backend.
type Store interface {
	EventStore
	MessageStore
	Close() error
}
