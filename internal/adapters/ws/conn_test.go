package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// newTestConn upgrades a real socket and wraps the server side, so the
// lifecycle under test matches production.
func newTestConn(t *testing.T, buffer int) *chatConn {
	t.Helper()
	serverSide := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		serverSide <- ws
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return newChatConn(<-serverSide, buffer)
}

func TestChatConn_TrySendAfterClose(t *testing.T) {
	req := require.New(t)
	c := newTestConn(t, 4)

	// Given a live conn that has accepted a frame
	req.NoError(c.TrySend([]byte("hi")))

	// When it is closed, late sends report the closure instead of
	// reaching the dead queue
	c.Close()
	req.ErrorIs(c.TrySend([]byte("late")), ErrClosed)

	// And closing again is harmless
	c.Close()
}

func TestChatConn_Backpressure(t *testing.T) {
	req := require.New(t)
	c := newTestConn(t, 1)

	req.NoError(c.TrySend([]byte("a")))
	req.ErrorIs(c.TrySend([]byte("b")), ErrBackpressure)
}

func TestChatConn_ConcurrentSendAndClose(t *testing.T) {
	c := newTestConn(t, 1)

	// Senders racing Close must only ever see an error, never a panic
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = c.TrySend([]byte("x"))
			}
		}()
	}
	c.Close()
	wg.Wait()
}
