package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushReachesAllConnectionsOfUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	userID := uuid.New()
	first := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 4)}
	second := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 4)}
	hub.RegisterClient(first)
	hub.RegisterClient(second)

	hub.Push(userID, []byte(`{"type":"post_liked"}`))

	for _, c := range []*Client{first, second} {
		select {
		case payload := <-c.Send:
			assert.JSONEq(t, `{"type":"post_liked"}`, string(payload))
		case <-time.After(2 * time.Second):
			t.Fatal("payload never arrived")
		}
	}
}

func TestPushToDisconnectedUserIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Must return promptly instead of blocking the caller.
	done := make(chan struct{})
	go func() {
		hub.Push(uuid.New(), []byte("hello"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("push to disconnected user blocked")
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	userID := uuid.New()
	client := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 4)}
	hub.RegisterClient(client)

	hub.Push(userID, []byte("one"))
	select {
	case <-client.Send:
	case <-time.After(2 * time.Second):
		t.Fatal("first payload never arrived")
	}

	hub.unregister <- client

	// Wait for the hub loop to process the unregister.
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		_, ok := hub.clients[userID]
		return !ok
	}, 2*time.Second, 10*time.Millisecond)

	hub.Push(userID, []byte("two"))
	select {
	case payload := <-client.Send:
		t.Fatalf("unexpected delivery after unregister: %s", payload)
	case <-time.After(200 * time.Millisecond):
	}
}
