package streamhub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kestrelcam/handtrace/handmodel"
)

func TestHubBroadcastsPublishedFrame(t *testing.T) {
	hub := New(10 * time.Millisecond)
	defer hub.Close()

	server := httptest.NewServer(hub)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}

	// Give the server a moment to register the client before publishing.
	time.Sleep(20 * time.Millisecond)

	frame := handmodel.NewHandFrame(42, 1)
	frame.HandCount = 1
	frame.Hands[0] = handmodel.HandRecord{TrackingID: 5, Status: handmodel.HandTrackingStatus}
	hub.Publish(frame)

	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	if !strings.Contains(string(msg), `"frameIndex":42`) && !strings.Contains(string(msg), `"FrameIndex":42`) {
		t.Fatalf("expected broadcast message to contain frame index 42, got %s", msg)
	}
}

func TestHubHasClientsReflectsConnections(t *testing.T) {
	hub := New(10 * time.Millisecond)
	defer hub.Close()

	if hub.HasClients() {
		t.Fatal("expected no clients before any connection")
	}

	server := httptest.NewServer(hub)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	time.Sleep(20 * time.Millisecond)
	if !hub.HasClients() {
		t.Fatal("expected HasClients to be true once a client connects")
	}
}
