package ws

import (
	"net/http"
	"time"

	gw "github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Conn — алиас, чтобы не тянуть gorilla в соседние пакеты.
type Conn = gw.Conn

const (
	sendBuffer   = 256
	writeTimeout = 10 * time.Second
)

var upgrader = gw.Upgrader{
	// CORS для websocket решается на уровне reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler апгрейдит HTTP-запросы дашборда до websocket и подписывает их на hub.
type Handler struct {
	hub    *Hub
	logger *log.Entry
}

// NewHandler создаёт websocket handler поверх hub.
func NewHandler(hub *Hub, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "ws-handler")
	}
	return &Handler{hub: hub, logger: logger}
}

// ServeWS обрабатывает подключение клиента дашборда.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Debug("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	client.hub.register <- client
	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	defer func() { _ = c.conn.Close() }()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(gw.TextMessage, msg); err != nil {
			return
		}
	}
}
