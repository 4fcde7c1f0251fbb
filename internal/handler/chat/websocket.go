package chat

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/gatherhall/concierge/backend/internal/auth"
	"github.com/gatherhall/concierge/backend/pkg/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleWebSocket serves the same exchange as the SSE endpoint over a
// WebSocket: the client sends one {"message": ...} frame, the server streams
// {"text": ...} frames followed by a literal [DONE] frame, then closes.
// Rejections that happen before the upgrade stay plain HTTP.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
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

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[chat] websocket upgrade failed for user=%s: %v", identity, err)
		return
	}
	defer conn.Close()

	var payload struct {
		Message string `json:"message"`
	}
	if err := conn.ReadJSON(&payload); err != nil {
		_ = conn.WriteJSON(errorPayload{Error: "Invalid request body"})
		return
	}
	if err := h.validateMessage(payload.Message); err != nil {
		_ = conn.WriteJSON(errorPayload{Error: err.Error()})
		return
	}

	h.relay(r.Context(), identity, payload.Message, &wsSink{conn: conn})
}

type wsSink struct {
	conn *websocket.Conn
}

func (s *wsSink) WriteText(text string) error {
	return s.conn.WriteJSON(chunkPayload{Text: text})
}

func (s *wsSink) WriteError(message string) error {
	return s.conn.WriteJSON(errorPayload{Error: message})
}

func (s *wsSink) WriteDone() error {
	return s.conn.WriteMessage(websocket.TextMessage, []byte(doneSentinel))
}
