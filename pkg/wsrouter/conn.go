package wsrouter

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Conn wraps a websocket connection and serializes writes. Reads happen
// on a single goroutine per connection (ServeConn), but writes come both
// from that goroutine and from peers broadcasting into the connection,
// and the underlying websocket forbids concurrent writers.
type Conn struct {
	ws *websocket.Conn

	writeMu sync.Mutex
}

func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

func (c *Conn) ReadJSON(v any) error {
	return c.ws.ReadJSON(v)
}

func (c *Conn) WriteJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.ws.WriteJSON(v)
}

func (c *Conn) Close() error {
	return c.ws.Close()
}
