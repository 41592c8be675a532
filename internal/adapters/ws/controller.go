package ws

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/tessen/chatd/internal/config"
	"github.com/tessen/chatd/internal/core"
	"github.com/tessen/chatd/internal/domain"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Controller bridges websockets and the core state machine. It is the
// only place that knows both a nickname's connection id and the socket
// behind it.
type Controller struct {
	state *core.State
	cfg   *config.Config

	mu     sync.RWMutex
	conns  map[domain.ConnID]*chatConn
	nextID atomic.Int64
}

func NewController(state *core.State, cfg *config.Config) *Controller {
	return &Controller{
		state: state,
		cfg:   cfg,
		conns: make(map[domain.ConnID]*chatConn),
	}
}

// HandleChat upgrades the request, registers the connection with the
// core and starts the read/write pumps. Commands are handed to the core
// one at a time, in arrival order for this connection.
func (ctl *Controller) HandleChat(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("upgrade failed")
		return
	}

	id := domain.ConnID(ctl.nextID.Add(1))
	conn := newChatConn(ws, ctl.cfg.SendBuffer)
	ws.SetReadLimit(ctl.cfg.ReadLimit)

	ctl.mu.Lock()
	ctl.conns[id] = conn
	ctl.mu.Unlock()

	b := ctl.state.Register(id)
	ctl.deliver(id, conn, b)
	log.Info().Str("module", "ws").Int64("conn", int64(id)).Str("token", c.GetString("client_token")).Msg("connection open")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, id, conn)
}

func (ctl *Controller) writePump(ctx context.Context, c *chatConn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				log.Warn().Err(err).Str("module", "ws").Msg("writePump ping error")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, id domain.ConnID, c *chatConn) {
	defer func() {
		cancel()
		ctl.teardown(id, c)
	}()

	pongWait := ctl.cfg.PingPeriod * 10 / 9
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "ws").Int64("conn", int64(id)).Msg("readPump closing")
				return
			}
			ctl.handleFrame(id, c, data)
		}
	}
}

// teardown runs exactly once per connection, after the read pump ends.
// The core computes who must learn about the departure; the conn map
// entry goes away before fan-out so nobody routes to a dead socket.
func (ctl *Controller) teardown(id domain.ConnID, c *chatConn) {
	ctl.mu.Lock()
	delete(ctl.conns, id)
	ctl.mu.Unlock()

	b := ctl.state.Deregister(id)
	ctl.deliver(id, nil, b)
	c.Close()
	log.Info().Str("module", "ws").Int64("conn", int64(id)).Msg("connection closed")
}

func (ctl *Controller) lookup(id domain.ConnID) *chatConn {
	ctl.mu.RLock()
	defer ctl.mu.RUnlock()
	return ctl.conns[id]
}
