package prompt

import (
	"strings"
	"testing"

	"github.com/gatherhall/concierge/backend/internal/model/event"
)

func TestBuildWithUnsetFieldsRendersFallbacks(t *testing.T) {
	a := NewAssembler()

	out := a.Build(event.EventInfo{Title: "Demo Con"}, nil, nil)

	for _, want := range []string{
		"- Date: TBD",
		"- Time: TBD",
		"- Venue: TBD",
		"- Location: TBD",
		"- Description: No description yet",
		"- Notes: None",
		"No itinerary items yet.",
		"No checklist items yet.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	for _, artifact := range []string{"null", "undefined", "<nil>"} {
		if strings.Contains(out, artifact) {
			t.Fatalf("output contains %q artifact:\n%s", artifact, out)
		}
	}
}

func TestBuildDefaultsTitle(t *testing.T) {
	a := NewAssembler()

	out := a.Build(event.EventInfo{}, nil, nil)
	if !strings.Contains(out, `"PM Mastermind"`) {
		t.Fatalf("expected default title in preamble:\n%s", out)
	}
}

func TestBuildNamesEventTitle(t *testing.T) {
	a := NewAssembler()

	out := a.Build(event.EventInfo{Title: "Demo Con"}, nil, nil)
	if !strings.Contains(out, `"Demo Con"`) {
		t.Fatalf("expected event title in preamble:\n%s", out)
	}
}

func TestBuildItineraryLineFormat(t *testing.T) {
	a := NewAssembler()
	itinerary := []event.ItineraryItem{
		{Title: "Registration", StartTime: "09:00"},
		{Title: "Keynote", StartTime: "10:00", EndTime: "11:00", Description: "Main hall"},
		{Title: "Wrap-up"},
	}

	out := a.Build(event.EventInfo{Title: "Demo Con"}, itinerary, nil)

	for _, want := range []string{
		"- 09:00: Registration",
		"- 10:00 - 11:00: Keynote (Main hall)",
		"- : Wrap-up",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing itinerary line %q:\n%s", want, out)
		}
	}
}

func TestBuildChecklistLineFormat(t *testing.T) {
	a := NewAssembler()
	checklist := []event.ChecklistItem{
		{Title: "Book travel", Description: "Before May 1"},
		{Title: "Install app"},
	}

	out := a.Build(event.EventInfo{Title: "Demo Con"}, nil, checklist)

	if !strings.Contains(out, "- Book travel: Before May 1") {
		t.Fatalf("output missing described checklist line:\n%s", out)
	}
	if !strings.Contains(out, "- Install app") {
		t.Fatalf("output missing bare checklist line:\n%s", out)
	}
}

func TestBuildEmptyItineraryIsExactSentence(t *testing.T) {
	a := NewAssembler()

	out := a.Build(event.EventInfo{Title: "Demo Con"}, nil, nil)

	idx := strings.Index(out, "Itinerary:\n")
	if idx < 0 {
		t.Fatalf("no itinerary block:\n%s", out)
	}
	rest := out[idx+len("Itinerary:\n"):]
	if !strings.HasPrefix(rest, "No itinerary items yet.\n") {
		t.Fatalf("empty itinerary block not the fixed sentence:\n%s", rest)
	}
}
