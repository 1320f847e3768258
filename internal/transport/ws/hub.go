package ws

import (
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
)

const broadcastBuffer = 64

// Client — одно websocket-подключение дашборда.
type Client struct {
	hub  *Hub
	conn *Conn
	send chan []byte
}

// Hub рассылает события заказов всем подключённым клиентам дашборда.
// Реализует domain.EventPublisher: сервис заказов ничего не знает о websocket.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan domain.OrderEvent
	clients    map[*Client]bool
	logger     *log.Entry
}

// NewHub создаёт hub; Run нужно запустить отдельной горутиной.
func NewHub(logger *log.Entry) *Hub {
	if logger == nil {
		logger = log.WithField("component", "ws-hub")
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan domain.OrderEvent, broadcastBuffer),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run обслуживает подключения до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case event := <-h.broadcast:
			msg, err := json.Marshal(event)
			if err != nil {
				h.logger.WithError(err).Warn("failed to marshal order event")
				continue
			}
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Медленный клиент: отключаем, чтобы не блокировать остальных.
					delete(h.clients, c)
					close(c.send)
				}
			}
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
			}
			return
		}
	}
}

// Publish ставит событие в очередь рассылки. Никогда не блокирует:
// при переполнении буфера событие отбрасывается.
func (h *Hub) Publish(event domain.OrderEvent) error {
	select {
	case h.broadcast <- event:
	default:
		h.logger.WithField("event", string(event.Type)).Warn("broadcast buffer full, dropping order event")
	}
	return nil
}

var _ domain.EventPublisher = (*Hub)(nil)
