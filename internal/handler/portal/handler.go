package portal

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gatherhall/concierge/backend/internal/auth"
	"github.com/gatherhall/concierge/backend/internal/service/history"
	"github.com/gatherhall/concierge/backend/internal/store"
	"github.com/gatherhall/concierge/backend/pkg/utils"
)

// Handler serves the attendee dashboard reads: event details, itinerary,
// checklist, and the caller's own conversation history. All endpoints are
// read-only; admin tooling mutates these records elsewhere.
type Handler struct {
	events  store.EventStore
	history *history.Service
}

// New creates the portal handler.
func New(events store.EventStore, hist *history.Service) *Handler {
	return &Handler{events: events, history: hist}
}

// RegisterRoutes mounts the dashboard endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/event", h.handleEventInfo)
	r.Get("/itinerary", h.handleItinerary)
	r.Get("/checklist", h.handleChecklist)
	r.Get("/chat/history", h.handleChatHistory)
}

func (h *Handler) handleEventInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.events.GetEventInfo(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "event not configured")
		return
	}
	if err != nil {
		log.Printf("[portal] failed to load event info: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to load event")
		return
	}
	utils.RespondJSON(w, http.StatusOK, info)
}

func (h *Handler) handleItinerary(w http.ResponseWriter, r *http.Request) {
	items, err := h.events.ListItinerary(r.Context())
	if err != nil {
		log.Printf("[portal] failed to load itinerary: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to load itinerary")
		return
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func (h *Handler) handleChecklist(w http.ResponseWriter, r *http.Request) {
	items, err := h.events.ListChecklist(r.Context())
	if err != nil {
		log.Printf("[portal] failed to load checklist: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to load checklist")
		return
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func (h *Handler) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	identity := auth.Identity(r.Context())
	if identity == "" {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	window, err := h.history.Window(r.Context(), identity)
	if err != nil {
		log.Printf("[portal] failed to load history for user=%s: %v", identity, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	utils.RespondJSON(w, http.StatusOK, window)
}
