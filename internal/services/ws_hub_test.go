package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialHub spins up a server that upgrades and registers the connection
// for userID, then dials it and waits for the hub to see the user.
func dialHub(t *testing.T, hub *WSHub, userID uint) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(userID, conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.Eventually(t, func() bool { return hub.IsOnline(userID) },
		time.Second, 10*time.Millisecond)
	return client
}

func readEvent(t *testing.T, client *websocket.Conn) WSEvent {
	t.Helper()
	client.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	var event WSEvent
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

func TestSendToUserDeliversEvent(t *testing.T) {
	hub := NewWSHub()
	client := dialHub(t, hub, 1)

	require.NoError(t, hub.SendToUser(1, WSEvent{Type: "new_message", ConnectionID: 5}))

	event := readEvent(t, client)
	assert.Equal(t, "new_message", event.Type)
	assert.Equal(t, uint(5), event.ConnectionID)
}

func TestSendToOfflineUser(t *testing.T) {
	hub := NewWSHub()
	err := hub.SendToUser(99, WSEvent{Type: "new_message"})
	assert.Error(t, err)
}

func TestBroadcastNewMessageReachesBothParticipants(t *testing.T) {
	hub := NewWSHub()
	alice := dialHub(t, hub, 1)
	bob := dialHub(t, hub, 2)

	hub.BroadcastNewMessage(7, 1, 2)

	for _, client := range []*websocket.Conn{alice, bob} {
		event := readEvent(t, client)
		assert.Equal(t, "new_message", event.Type)
		assert.Equal(t, uint(7), event.ConnectionID)
	}
}

func TestConcurrentSendsToSameUser(t *testing.T) {
	hub := NewWSHub()
	client := dialHub(t, hub, 1)

	// Two simultaneous chat sends can target the same recipient; the
	// per-connection write lock must serialize them.
	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(id uint) {
			defer wg.Done()
			_ = hub.SendToUser(1, WSEvent{Type: "new_message", ConnectionID: id})
		}(uint(i + 1))
	}
	wg.Wait()

	seen := make(map[uint]bool)
	for i := 0; i < n; i++ {
		event := readEvent(t, client)
		assert.Equal(t, "new_message", event.Type)
		seen[event.ConnectionID] = true
	}
	assert.Len(t, seen, n)
	assert.True(t, hub.IsOnline(1))
}

func TestUnregisterOnlyRemovesOwnConn(t *testing.T) {
	hub := NewWSHub()
	dialHub(t, hub, 1)

	// A stale conn must not evict the active one.
	hub.Unregister(1, nil)
	assert.True(t, hub.IsOnline(1))
}
