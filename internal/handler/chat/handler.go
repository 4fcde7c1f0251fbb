package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/gatherhall/concierge/backend/internal/auth"
	"github.com/gatherhall/concierge/backend/internal/model/chat"
	"github.com/gatherhall/concierge/backend/internal/model/event"
	"github.com/gatherhall/concierge/backend/internal/service/ai"
	"github.com/gatherhall/concierge/backend/internal/service/history"
	"github.com/gatherhall/concierge/backend/internal/service/prompt"
	"github.com/gatherhall/concierge/backend/internal/service/ratelimit"
	"github.com/gatherhall/concierge/backend/internal/store"
	"github.com/gatherhall/concierge/backend/pkg/utils"
)

const persistTimeout = 5 * time.Second

// Handler is the assistant gateway: it validates and rate-limits inbound
// messages, assembles grounding context, relays the generated reply to the
// caller as a stream, and persists both turns of the exchange.
type Handler struct {
	events          store.EventStore
	history         *history.Service
	limiter         *ratelimit.Limiter
	assembler       *prompt.Assembler
	gen             ai.Client
	maxMessageChars int
}

// New creates the chat gateway handler. gen may be nil when no backend is
// configured; chat endpoints then answer 503.
func New(events store.EventStore, hist *history.Service, limiter *ratelimit.Limiter, gen ai.Client, maxMessageChars int) *Handler {
	return &Handler{
		events:          events,
		history:         hist,
		limiter:         limiter,
		assembler:       prompt.NewAssembler(),
		gen:             gen,
		maxMessageChars: maxMessageChars,
	}
}

// RegisterRoutes mounts the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleSend)
	r.Get("/chat/ws", h.handleWebSocket)
}

// handleSend streams the assistant reply over SSE. Each fragment is a
// data frame carrying {"text": ...}; the terminal frame is the literal
// [DONE] sentinel. Rejections are plain JSON before the stream starts.
func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	identity := auth.Identity(r.Context())
	if identity == "" {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if h.gen == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "assistant unavailable")
		return
	}

	if !h.limiter.Allow(identity) {
		utils.RespondError(w, http.StatusTooManyRequests, "Too many messages. Please wait a moment.")
		return
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validateMessage(payload.Message); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)
	h.relay(r.Context(), identity, payload.Message, &sseSink{w: w, flusher: flusher})
}

// validateMessage enforces the inbound message contract. Length is counted
// in characters, not bytes.
func (h *Handler) validateMessage(message string) error {
	if message == "" {
		return errors.New("Message is required")
	}
	if utf8.RuneCountInString(message) > h.maxMessageChars {
		return fmt.Errorf("Message too long (max %d characters)", h.maxMessageChars)
	}
	return nil
}

// requestContext is the grounding snapshot gathered before generation. A
// failed read leaves its field zero so the prompt renders placeholders
// instead of the whole request aborting.
type requestContext struct {
	event     event.EventInfo
	itinerary []event.ItineraryItem
	checklist []event.ChecklistItem
	window    []chat.Message
}

// loadContext fetches the four read-only collaborators in parallel. Each
// goroutine writes a distinct field, so no lock is needed around rc.
func (h *Handler) loadContext(ctx context.Context, identity string) requestContext {
	var (
		rc requestContext
		wg sync.WaitGroup
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		info, err := h.events.GetEventInfo(ctx)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				log.Printf("[chat] failed to load event info: %v", err)
			}
			return
		}
		rc.event = info
	}()
	go func() {
		defer wg.Done()
		items, err := h.events.ListItinerary(ctx)
		if err != nil {
			log.Printf("[chat] failed to load itinerary: %v", err)
			return
		}
		rc.itinerary = items
	}()
	go func() {
		defer wg.Done()
		items, err := h.events.ListChecklist(ctx)
		if err != nil {
			log.Printf("[chat] failed to load checklist: %v", err)
			return
		}
		rc.checklist = items
	}()
	go func() {
		defer wg.Done()
		window, err := h.history.Window(ctx, identity)
		if err != nil {
			log.Printf("[chat] failed to load history for user=%s: %v", identity, err)
			return
		}
		rc.window = window
	}()
	wg.Wait()

	return rc
}

// relay runs one full exchange against the given sink. By the time relay is
// called the request has passed auth, rate, and input checks.
func (h *Handler) relay(ctx context.Context, identity, message string, sink ChunkSink) {
	rc := h.loadContext(ctx, identity)
	instruction := h.assembler.Build(rc.event, rc.itinerary, rc.checklist)

	// The inbound turn is persisted before generation starts so a crash
	// mid-stream still preserves what the user sent.
	if _, err := h.history.Append(ctx, identity, chat.RoleUser, message); err != nil {
		log.Printf("[chat] failed to save user message for user=%s: %v", identity, err)
	}

	stream, err := h.gen.StreamReply(ctx, instruction, rc.window, message)
	if err != nil {
		log.Printf("[chat] failed to start generation for user=%s: %v", identity, err)
		_ = sink.WriteError("AI generation failed")
		return
	}
	defer stream.Close()

	var full strings.Builder
	for {
		text, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			// Fragments already flushed cannot be unsent; keep the log
			// consistent with what the user actually saw.
			h.persistReply(identity, full.String())
			if ctx.Err() != nil {
				log.Printf("[chat] client disconnected mid-stream for user=%s", identity)
				return
			}
			log.Printf("[chat] generation failed mid-stream for user=%s: %v", identity, recvErr)
			_ = sink.WriteError("AI generation failed")
			return
		}

		full.WriteString(text)
		if err := sink.WriteText(text); err != nil {
			h.persistReply(identity, full.String())
			log.Printf("[chat] failed to forward fragment for user=%s: %v", identity, err)
			return
		}
	}

	// Outbound persistence precedes the end sentinel so a sequential caller
	// always observes their completed exchange in history.
	h.persistReply(identity, full.String())
	if err := sink.WriteDone(); err != nil {
		log.Printf("[chat] failed to send end sentinel for user=%s: %v", identity, err)
		return
	}
	log.Printf("[chat] completed exchange for user=%s", identity)
}

// persistReply saves the assistant turn. It runs on its own context so an
// aborted request can still finalize persistence of partial output. A failed
// write here means history no longer matches what the user saw, so it is
// logged loudly rather than swallowed.
func (h *Handler) persistReply(identity, content string) {
	if content == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if _, err := h.history.Append(ctx, identity, chat.RoleAssistant, content); err != nil {
		log.Printf("[chat] integrity: failed to save assistant message for user=%s: %v", identity, err)
	}
}
