package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gatherhall/concierge/backend/internal/model/chat"
	"github.com/gatherhall/concierge/backend/internal/model/event"
	"github.com/gatherhall/concierge/backend/internal/store"
)

func TestMemoryEventNotConfigured(t *testing.T) {
	s := store.NewMemoryStore()
	if _, err := s.GetEventInfo(context.Background()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemorySortsBySortOrder(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	if err := s.AddItineraryItem(ctx, event.ItineraryItem{Title: "Closing", SortOrder: 2}); err != nil {
		t.Fatalf("AddItineraryItem err: %v", err)
	}
	if err := s.AddItineraryItem(ctx, event.ItineraryItem{Title: "Opening", SortOrder: 1}); err != nil {
		t.Fatalf("AddItineraryItem err: %v", err)
	}

	items, err := s.ListItinerary(ctx)
	if err != nil {
		t.Fatalf("ListItinerary err: %v", err)
	}
	if len(items) != 2 || items[0].Title != "Opening" || items[1].Title != "Closing" {
		t.Fatalf("unexpected itinerary order: %+v", items)
	}
}

func TestMemoryRecentMessagesIsolation(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	for _, userID := range []string{"u1", "u1", "u2"} {
		msg := chat.Message{UserID: userID, Role: chat.RoleUser, Content: "hi from " + userID}
		if err := s.AppendMessage(ctx, &msg); err != nil {
			t.Fatalf("AppendMessage err: %v", err)
		}
		if msg.ID == "" || msg.CreatedAt.IsZero() {
			t.Fatalf("expected assigned ID and timestamp: %+v", msg)
		}
	}

	got, err := s.RecentMessages(ctx, "u1", 50)
	if err != nil {
		t.Fatalf("RecentMessages err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages for u1, got %d", len(got))
	}

	got, err = s.RecentMessages(ctx, "u2", 1)
	if err != nil {
		t.Fatalf("RecentMessages err: %v", err)
	}
	if len(got) != 1 || got[0].Content != "hi from u2" {
		t.Fatalf("unexpected messages for u2: %+v", got)
	}
}
