package ws

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tablekeep/pos-api/internal/auth"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10 // must stay under pongWait

	// Displays only send control frames.
	maxMessageSize = 512
	sendBuffer     = 256
)

// Any origin may connect; the token in the query string is what is checked.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Client is one kitchen display, expo screen or floor terminal.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	locationID uuid.UUID
	send       chan []byte
}

// ReadPump only detects disconnects; clients never send events.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("websocket read", zap.Error(err))
			}
			break
		}
	}
}

// WritePump delivers queued events and keeps the connection alive with pings.
// Events that queue up while a frame is being written share that frame,
// one JSON document per line.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			for i := len(c.send); i > 0; i-- {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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

// ServeWS subscribes a display to one location's events:
//
//	GET /ws/locations/{lid}/events?token=<access token>
//
// Browsers cannot set headers on a websocket handshake, so the token rides
// in the query string.
func ServeWS(hub *Hub, jwtSecret string, w http.ResponseWriter, r *http.Request) {
	locationID, status, msg := authorize(jwtSecret, r)
	if status != 0 {
		http.Error(w, msg, status)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Warn("websocket upgrade", zap.Error(err))
		return
	}

	client := &Client{
		hub:        hub,
		conn:       conn,
		locationID: locationID,
		send:       make(chan []byte, sendBuffer),
	}
	select {
	case client.hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// authorize returns the location to subscribe to, or a non-zero HTTP status
// and message.
func authorize(jwtSecret string, r *http.Request) (uuid.UUID, int, string) {
	token := r.URL.Query().Get("token")
	if token == "" {
		return uuid.Nil, http.StatusUnauthorized, "missing token"
	}
	claims, err := auth.ValidateToken(jwtSecret, token)
	if err != nil {
		return uuid.Nil, http.StatusUnauthorized, "invalid token"
	}
	locationID, err := uuid.Parse(chi.URLParam(r, "lid"))
	if err != nil {
		return uuid.Nil, http.StatusBadRequest, "invalid location id"
	}
	if !claims.CanAccess(locationID) {
		return uuid.Nil, http.StatusForbidden, "location access denied"
	}
	return locationID, 0, ""
}
