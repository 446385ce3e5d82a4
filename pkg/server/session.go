package server

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"github.com/japaniel/polytonic/pkg/logging"
	"github.com/japaniel/polytonic/pkg/translit"
)

// session is one live-typing connection. Only readPump touches the engine.
type session struct {
	id     string
	ctx    context.Context
	conn   *websocket.Conn
	engine *translit.Engine
	send   chan any
	done   chan struct{}
}

// queue hands ev to the writer. It reports false once the writer is gone.
func (c *session) queue(ev any) bool {
	select {
	case c.send <- ev:
		return true
	case <-c.done:
		return false
	}
}

// readPump feeds every text frame to the engine and queues one KeyEvent
// per character. It closes send when the peer goes away.
func (c *session) readPump() {
	defer func() {
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		kind, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.FromContext(c.ctx).Warn("websocket unexpected close", "error", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		if string(msg) == ResetFrame {
			c.engine.Reset()
			if !c.queue(ResetEvent{Session: c.id, Reset: true}) {
				return
			}
			continue
		}
		for len(msg) > 0 {
			_, n := utf8.DecodeRune(msg)
			// The bytes of one character share a single reply.
			var ed translit.Edit
			for _, b := range msg[:n] {
				ed = ed.Then(c.engine.Feed(b))
			}
			ok := c.queue(KeyEvent{
				Session: c.id,
				Key:     string(msg[:n]),
				Delete:  ed.Delete,
				Insert:  ed.Insert,
				Pending: c.engine.Pending(),
			})
			if !ok {
				return
			}
			msg = msg[n:]
		}
		// The client holds the text; only the open glyph matters here.
		c.engine.Compact()
	}
}

// writePump sends queued events and keeps the connection alive with pings.
func (c *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				logging.FromContext(c.ctx).Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
