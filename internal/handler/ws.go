package handler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"carstok-backend/internal/model"
	"carstok-backend/internal/service"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	wsReadTimeout = 60 * time.Second
	wsOpenTimeout = 5 * time.Second
)

type WSHandler struct {
	hub   *service.WSHub
	feeds *service.FeedService
	cars  *service.CarService
}

func NewWSHandler(hub *service.WSHub, feeds *service.FeedService, cars *service.CarService) *WSHandler {
	return &WSHandler{hub: hub, feeds: feeds, cars: cars}
}

// GET /ws
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(h.handleConnection)(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *WSHandler) handleConnection(c *websocket.Conn) {
	client := &service.WSClient{
		ID:   uuid.NewString(),
		Conn: c,
		Send: make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	// Writer goroutine
	go func() {
		defer c.Close()
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}()

	send := func(event *model.WSEvent) {
		data, err := json.Marshal(event)
		if err != nil {
			return
		}
		client.Push(data)
	}

	c.SetReadDeadline(time.Now().Add(wsReadTimeout))
	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			break
		}
		c.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var event model.WSEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}

		switch event.Type {
		case "ping":
			send(&model.WSEvent{Type: "pong"})

		case model.EventFeedOpen:
			var open model.FeedOpenMessage
			if err := json.Unmarshal(event.Data, &open); err != nil {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), wsOpenTimeout)
			session, err := service.OpenFeedSession(ctx, h.feeds, h.cars, open, send)
			cancel()
			if err != nil {
				log.Printf("[WS] %s feed open failed: %v", client.ID, err)
				continue
			}
			client.SetSession(session)

		case model.EventFeedScroll:
			var scroll model.FeedScrollMessage
			if s := client.Session(); s != nil && json.Unmarshal(event.Data, &scroll) == nil {
				s.Scroll(scroll.ScrollTop)
			}

		case model.EventFeedSwipe:
			var swipe model.FeedSwipeMessage
			if s := client.Session(); s != nil && json.Unmarshal(event.Data, &swipe) == nil {
				s.Swipe(swipe)
			}

		default:
			log.Printf("[WS] unknown event type %s from %s", event.Type, client.ID)
		}
	}
}
