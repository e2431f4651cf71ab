package mentions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"solana-launch-pilot/internal/domain"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func TestWSSource_ReceivesMentions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Fatalf("upgrade: %v", err)
		}
		defer conn.Close()

		msg, _ := json.Marshal(domain.Mention{ID: "m1", Text: "Super Sheep + SHEEP"})
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}

		// Keep connection open until client closes.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	source, err := NewWSSource(context.Background(), wsURL, nil)
	if err != nil {
		t.Fatalf("NewWSSource: %v", err)
	}
	defer source.Close()

	// Allow the read loop to pick up the frame.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		fetched, err := source.Fetch(context.Background())
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if len(fetched) > 0 {
			if fetched[0].ID != "m1" {
				t.Errorf("expected m1, got %s", fetched[0].ID)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("mention never arrived")
}

func TestWSSource_IgnoresMalformedFrames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Fatalf("upgrade: %v", err)
		}
		defer conn.Close()

		conn.WriteMessage(websocket.TextMessage, []byte("not json"))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"text":"missing id"}`))

		msg, _ := json.Marshal(domain.Mention{ID: "good", Text: "x"})
		conn.WriteMessage(websocket.TextMessage, msg)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	source, err := NewWSSource(context.Background(), wsURL, nil)
	if err != nil {
		t.Fatalf("NewWSSource: %v", err)
	}
	defer source.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		fetched, _ := source.Fetch(context.Background())
		for _, m := range fetched {
			if m.ID != "good" {
				t.Errorf("malformed frame surfaced as mention: %+v", m)
			}
			if m.ID == "good" {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("valid mention never arrived")
}

func TestWSSource_FetchAfterClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	source, err := NewWSSource(context.Background(), wsURL, nil)
	if err != nil {
		t.Fatalf("NewWSSource: %v", err)
	}

	if err := source.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := source.Fetch(context.Background()); err == nil {
		t.Error("expected error fetching from closed source")
	}
}
