package event

import "time"

// EventInfo is the singleton record describing the event. Every field except
// Title may be blank; readers substitute placeholders for blank fields.
type EventInfo struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	EventDate       string    `json:"eventDate,omitempty"`
	EventTime       string    `json:"eventTime,omitempty"`
	VenueName       string    `json:"venueName,omitempty"`
	Location        string    `json:"location,omitempty"`
	Description     string    `json:"description,omitempty"`
	AdditionalNotes string    `json:"additionalNotes,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ItineraryItem is one scheduled slot. Items are ordered by SortOrder, ties
// broken by StartTime.
type ItineraryItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date,omitempty"`
	StartTime   string    `json:"startTime,omitempty"`
	EndTime     string    `json:"endTime,omitempty"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ChecklistItem is one pre-event preparation item, ordered by SortOrder.
type ChecklistItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
}
