// Package ws is the WebSocket transport adapter. It owns connection
// identifiers and socket lifecycle, decodes client frames into protocol
// commands, and fans the core's broadcasts out to recipient sockets.
// The core never sees a socket.
package ws

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

var (
	ErrBackpressure = errors.New("send buffer full")
	ErrClosed       = errors.New("connection closed")
)

// chatConn wraps one websocket with a buffered outbound queue. Writes
// go through TrySend; a full buffer is reported, never blocked on.
// TrySend and Close may race: a recipient can be closed for
// backpressure while another broadcast still routes to it, so TrySend
// checks the closed flag under the same lock Close sets it with.
type chatConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func newChatConn(ws *websocket.Conn, buffer int) *chatConn {
	return &chatConn{
		conn: ws,
		send: make(chan []byte, buffer),
	}
}

func (c *chatConn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrBackpressure
	}
}

func (c *chatConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}
