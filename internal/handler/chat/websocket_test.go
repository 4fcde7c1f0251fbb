package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/gatherhall/concierge/backend/internal/auth"
)

func TestWebSocketStreamsReply(t *testing.T) {
	gen := &fakeClient{fragments: []string{"hi ", "there"}}
	r, _ := setupRouter(gen, 10)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws"
	header := http.Header{}
	header.Set(auth.HeaderUserID, "u1")

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	defer conn.Close()
	defer resp.Body.Close()

	if err := conn.WriteJSON(map[string]string{"message": "hello"}); err != nil {
		t.Fatalf("write err: %v", err)
	}

	var streamed strings.Builder
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read err: %v", err)
		}
		if string(data) == "[DONE]" {
			break
		}
		var chunk struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &chunk); err != nil {
			t.Fatalf("bad frame %q: %v", data, err)
		}
		streamed.WriteString(chunk.Text)
	}

	if streamed.String() != "hi there" {
		t.Fatalf("unexpected streamed text %q", streamed.String())
	}
}

func TestWebSocketRequiresIdentity(t *testing.T) {
	gen := &fakeClient{fragments: []string{"hi"}}
	r, _ := setupRouter(gen, 10)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected handshake failure without identity")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", resp)
	}
}
