package chat

import (
	"net/http"

	"github.com/gatherhall/concierge/backend/pkg/utils"
)

// ChunkSink abstracts the transport a reply streams through, so the SSE and
// WebSocket endpoints share one relay loop. Write errors signal a
// disconnected caller; the relay stops forwarding but still finalizes
// persistence.
type ChunkSink interface {
	WriteText(text string) error
	WriteError(message string) error
	WriteDone() error
}

// chunkPayload is the unit emitted for every text fragment on both
// transports.
type chunkPayload struct {
	Text string `json:"text"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// doneSentinel terminates a successful stream.
const doneSentinel = "[DONE]"

type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (s *sseSink) WriteText(text string) error {
	return utils.SendSSEJSON(s.w, s.flusher, chunkPayload{Text: text})
}

func (s *sseSink) WriteError(message string) error {
	return utils.SendSSEJSON(s.w, s.flusher, errorPayload{Error: message})
}

func (s *sseSink) WriteDone() error {
	return utils.SendSSERaw(s.w, s.flusher, doneSentinel)
}
