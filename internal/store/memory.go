package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gatherhall/concierge/backend/internal/model/chat"
	"github.com/gatherhall/concierge/backend/internal/model/event"
)

// MemoryStore implements Store in memory. It backs the service when no
// database path is configured and is the store used throughout tests.
type MemoryStore struct {
	mu        sync.RWMutex
	info      *event.EventInfo
	itinerary []event.ItineraryItem
	checklist []event.ChecklistItem
	messages  map[string][]chat.Message
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		messages: make(map[string][]chat.Message),
	}
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

// GetEventInfo returns the event record, ErrNotFound when unset.
func (s *MemoryStore) GetEventInfo(_ context.Context) (event.EventInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.info == nil {
		return event.EventInfo{}, ErrNotFound
	}
	return *s.info, nil
}

// ListItinerary returns itinerary items ordered by sort order then start time.
func (s *MemoryStore) ListItinerary(_ context.Context) ([]event.ItineraryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := append([]event.ItineraryItem(nil), s.itinerary...)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return items[i].StartTime < items[j].StartTime
	})
	return items, nil
}

// ListChecklist returns checklist items ordered by sort order.
func (s *MemoryStore) ListChecklist(_ context.Context) ([]event.ChecklistItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := append([]event.ChecklistItem(nil), s.checklist...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SortOrder < items[j].SortOrder
	})
	return items, nil
}

// RecentMessages returns up to limit most recent messages for the user,
// oldest first.
func (s *MemoryStore) RecentMessages(_ context.Context, userID string, limit int) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.messages[userID]
	start := 0
	if limit > 0 && len(all) > limit {
		start = len(all) - limit
	}
	return append([]chat.Message(nil), all[start:]...), nil
}

// AppendMessage records one chat turn.
func (s *MemoryStore) AppendMessage(_ context.Context, msg *chat.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.UserID] = append(s.messages[msg.UserID], *msg)
	return nil
}

// SetEventInfo replaces the event record (seeding/tests).
func (s *MemoryStore) SetEventInfo(_ context.Context, info event.EventInfo) error {
	if info.ID == "" {
		info.ID = uuid.NewString()
	}
	if info.UpdatedAt.IsZero() {
		info.UpdatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = &info
	return nil
}

// AddItineraryItem inserts one itinerary item (seeding/tests).
func (s *MemoryStore) AddItineraryItem(_ context.Context, item event.ItineraryItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.itinerary = append(s.itinerary, item)
	return nil
}

// AddChecklistItem inserts one checklist item (seeding/tests).
func (s *MemoryStore) AddChecklistItem(_ context.Context, item event.ChecklistItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.checklist = append(s.checklist, item)
	return nil
}
