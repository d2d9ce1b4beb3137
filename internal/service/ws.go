package service

import (
	"encoding/json"
	"log"
	"sync"

	"carstok-backend/internal/model"

	"github.com/gofiber/contrib/websocket"
)

type WSClient struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	mu      sync.Mutex
	session *FeedSession
	closed  bool
}

// Push queues data for the writer goroutine. It reports false when the
// client is gone or its buffer is full.
func (c *WSClient) Push(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

func (c *WSClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// SetSession replaces the feed session of the client, closing the previous one.
func (c *WSClient) SetSession(s *FeedSession) {
	c.mu.Lock()
	prev := c.session
	c.session = s
	c.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
}

func (c *WSClient) Session() *FeedSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

type outbound struct {
	data      []byte
	deletedID string
}

type WSHub struct {
	clients    map[*WSClient]bool
	register   chan *WSClient
	unregister chan *WSClient
	broadcast  chan outbound
	mu         sync.RWMutex
	done       chan struct{}
}

func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		broadcast:  make(chan outbound, 256),
		done:       make(chan struct{}),
	}
}

func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] %s connected (total: %d)", client.ID, total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			total := len(h.clients)
			h.mu.Unlock()
			client.SetSession(nil)
			log.Printf("[WS] %s disconnected (total: %d)", client.ID, total)

		case msg := <-h.broadcast:
			if msg.deletedID != "" {
				h.dropFromSessions(msg.deletedID)
			}
			h.mu.Lock()
			for client := range h.clients {
				if !client.Push(msg.data) {
					client.close()
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			return
		}
	}
}

// dropFromSessions removes a deleted car from every open feed session. It
// runs without h.mu since a session may record a view and push an event.
func (h *WSHub) dropFromSessions(carID string) {
	h.mu.RLock()
	sessions := make([]*FeedSession, 0, len(h.clients))
	for client := range h.clients {
		if s := client.Session(); s != nil {
			sessions = append(sessions, s)
		}
	}
	h.mu.RUnlock()
	for _, s := range sessions {
		s.Remove(carID)
	}
}

func (h *WSHub) Shutdown() {
	close(h.done)
}

func (h *WSHub) Register(client *WSClient) {
	h.register <- client
}

func (h *WSHub) Unregister(client *WSClient) {
	h.unregister <- client
}

// Broadcast queues event for every connected client. Events are dropped when
// the queue is full.
func (h *WSHub) Broadcast(event *model.WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	msg := outbound{data: data}
	if event.Type == model.EventCarDeleted {
		var payload struct {
			ID string `json:"id"`
		}
		if json.Unmarshal(event.Data, &payload) == nil {
			msg.deletedID = payload.ID
		}
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Printf("[WS] broadcast queue full, dropping %s", event.Type)
	}
}

// Announce broadcasts a server announcement.
func (h *WSHub) Announce(message string) {
	data, _ := json.Marshal(model.WSAnnounce{Message: message})
	h.Broadcast(&model.WSEvent{Type: model.EventServerAnnounce, Data: data})
}

func (h *WSHub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
