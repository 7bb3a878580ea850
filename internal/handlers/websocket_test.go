package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"

	"skyllor-miniapp-backend/internal/models"
)

// Hub broadcasts and the per-connection reader's replies land on the same
// conn; both must go through the client's serialized writer.
func TestConcurrentClientWrites(t *testing.T) {
	h := NewWebSocketHandler(nil)

	connCh := make(chan *websocket.Conn, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Failed to upgrade: %v", err)
			return
		}
		connCh <- conn
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer clientConn.Close()

	serverConn := <-connCh
	defer serverConn.Close()

	client := &Client{UserID: 42, Conn: serverConn}
	h.hub.register <- client
	defer func() { h.hub.unregister <- client }()

	// Drain everything the server pushes so writes never block.
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for {
			if _, _, err := clientConn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.sendPong(client)
		}()
		go func() {
			defer wg.Done()
			h.BroadcastSpinResult(42, &models.SpinOutcome{
				Reward: models.SpinReward,
				State:  models.SpinStateIdle,
			})
		}()
	}
	wg.Wait()

	serverConn.Close()
	<-drained
}
