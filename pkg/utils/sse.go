package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// SetupSSEHeaders prepares the response for a Server-Sent Events stream.
// Cache-Control and Connection keep intermediaries from buffering fragments.
func SetupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// SendSSEJSON marshals payload into one data frame and flushes it. The write
// error is returned so streaming callers can detect a disconnected client.
func SendSSEJSON(w http.ResponseWriter, flusher http.Flusher, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling sse payload: %w", err)
	}
	return SendSSERaw(w, flusher, string(data))
}

// SendSSERaw writes a literal data frame, used for sentinels like [DONE].
func SendSSERaw(w http.ResponseWriter, flusher http.Flusher, data string) error {
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("writing sse frame: %w", err)
	}
	flusher.Flush()
	return nil
}
