package prompt

import (
	"fmt"
	"strings"

	"github.com/gatherhall/concierge/backend/internal/model/event"
)

// DefaultEventTitle names the event until an admin configures a record.
const DefaultEventTitle = "PM Mastermind"

// Fallback text for unset optional fields, rendered instead of blanks so the
// model never sees dangling labels.
const (
	fallbackTBD         = "TBD"
	fallbackDescription = "No description yet"
	fallbackNotes       = "None"
	emptyItinerary      = "No itinerary items yet."
	emptyChecklist      = "No checklist items yet."
)

// Assembler renders the grounding instruction injected as the system prompt
// for every generation request. Output is rebuilt per request, never cached,
// so admin edits take effect on the very next message.
type Assembler struct{}

// NewAssembler returns the event context assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Build renders the full instruction block from the current event snapshot.
func (a *Assembler) Build(info event.EventInfo, itinerary []event.ItineraryItem, checklist []event.ChecklistItem) string {
	title := strings.TrimSpace(info.Title)
	if title == "" {
		title = DefaultEventTitle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful AI assistant for the %q event. You help attendees with questions about the event.\n\n", title)

	b.WriteString("Here is the event information:\n")
	fmt.Fprintf(&b, "- Title: %s\n", title)
	fmt.Fprintf(&b, "- Date: %s\n", orFallback(info.EventDate, fallbackTBD))
	fmt.Fprintf(&b, "- Time: %s\n", orFallback(info.EventTime, fallbackTBD))
	fmt.Fprintf(&b, "- Venue: %s\n", orFallback(info.VenueName, fallbackTBD))
	fmt.Fprintf(&b, "- Location: %s\n", orFallback(info.Location, fallbackTBD))
	fmt.Fprintf(&b, "- Description: %s\n", orFallback(info.Description, fallbackDescription))
	fmt.Fprintf(&b, "- Notes: %s\n", orFallback(info.AdditionalNotes, fallbackNotes))

	b.WriteString("\nItinerary:\n")
	b.WriteString(renderItinerary(itinerary))

	b.WriteString("\n\nPre-event checklist items:\n")
	b.WriteString(renderChecklist(checklist))

	b.WriteString("\n\nBe friendly, concise, and helpful. If you don't know something about the event, say so honestly.")
	return b.String()
}

func renderItinerary(items []event.ItineraryItem) string {
	if len(items) == 0 {
		return emptyItinerary
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		var line strings.Builder
		line.WriteString("- ")
		line.WriteString(item.StartTime)
		if item.EndTime != "" {
			line.WriteString(" - ")
			line.WriteString(item.EndTime)
		}
		line.WriteString(": ")
		line.WriteString(item.Title)
		if item.Description != "" {
			fmt.Fprintf(&line, " (%s)", item.Description)
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func renderChecklist(items []event.ChecklistItem) string {
	if len(items) == 0 {
		return emptyChecklist
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		line := "- " + item.Title
		if item.Description != "" {
			line += ": " + item.Description
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func orFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
