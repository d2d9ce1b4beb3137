package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"carstok-backend/internal/model"
)

func startHub(t *testing.T) *WSHub {
	t.Helper()
	hub := NewWSHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)
	return hub
}

func newClient(id string) *WSClient {
	return &WSClient{ID: id, Send: make(chan []byte, 16)}
}

func receive(t *testing.T, c *WSClient) model.WSEvent {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		if !ok {
			t.Fatal("send channel closed")
		}
		var e model.WSEvent
		if err := json.Unmarshal(data, &e); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a message")
	}
	return model.WSEvent{}
}

func TestHubBroadcastsToClients(t *testing.T) {
	t.Parallel()
	hub := startHub(t)
	a, b := newClient("a"), newClient("b")
	hub.Register(a)
	hub.Register(b)
	waitFor(t, "two clients", func() bool { return hub.OnlineCount() == 2 })

	hub.Announce("Nouveaux arrivages")
	for _, c := range []*WSClient{a, b} {
		e := receive(t, c)
		if e.Type != model.EventServerAnnounce {
			t.Fatalf("%s got %s", c.ID, e.Type)
		}
		var msg model.WSAnnounce
		if err := json.Unmarshal(e.Data, &msg); err != nil || msg.Message != "Nouveaux arrivages" {
			t.Fatalf("announce = %+v (%v)", msg, err)
		}
	}
}

func TestHubUnregisterClosesClient(t *testing.T) {
	t.Parallel()
	hub := startHub(t)
	c := newClient("c")
	hub.Register(c)
	waitFor(t, "registration", func() bool { return hub.OnlineCount() == 1 })

	hub.Unregister(c)
	waitFor(t, "unregistration", func() bool { return hub.OnlineCount() == 0 })

	if _, ok := <-c.Send; ok {
		t.Fatal("send channel still open")
	}
	if c.Push([]byte("late")) {
		t.Fatal("push to a closed client succeeded")
	}
}

func TestHubDropsDeletedCarsFromSessions(t *testing.T) {
	t.Parallel()
	hub := startHub(t)
	s, _ := openSession(t, model.SearchFilters{})
	n := s.Tracker().Count()
	card, _ := s.carAt(0)

	c := newClient("viewer")
	c.SetSession(s)
	hub.Register(c)
	waitFor(t, "registration", func() bool { return hub.OnlineCount() == 1 })

	data, _ := json.Marshal(map[string]string{"id": card.ID})
	hub.Broadcast(&model.WSEvent{Type: model.EventCarDeleted, Data: data})
	if e := receive(t, c); e.Type != model.EventCarDeleted {
		t.Fatalf("got %s", e.Type)
	}
	if got := s.Tracker().Count(); got != n-1 {
		t.Fatalf("session count = %d, want %d", got, n-1)
	}
	if _, ok := s.carAt(n - 1); ok {
		t.Fatal("session still holds the deleted car")
	}
}

func TestHubSessionEventsDoNotBlockBroadcast(t *testing.T) {
	t.Parallel()
	hub := startHub(t)
	store := openStore(t)
	feeds := NewFeedService(store, store, testBroker)
	cars := NewCarService(store, nil, nil, func() int { return 50 })

	online := make(chan int, 4)
	send := func(e *model.WSEvent) {
		if e.Type == model.EventFeedActive {
			online <- hub.OnlineCount()
		}
	}
	s, err := OpenFeedSession(context.Background(), feeds, cars, model.FeedOpenMessage{ItemHeight: 100}, send)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	t.Cleanup(s.Close)
	<-online
	card, _ := s.carAt(0)

	c := newClient("viewer")
	c.SetSession(s)
	hub.Register(c)
	waitFor(t, "registration", func() bool { return hub.OnlineCount() == 1 })

	data, _ := json.Marshal(map[string]string{"id": card.ID})
	hub.Broadcast(&model.WSEvent{Type: model.EventCarDeleted, Data: data})
	if e := receive(t, c); e.Type != model.EventCarDeleted {
		t.Fatalf("got %s", e.Type)
	}
	select {
	case n := <-online:
		if n != 1 {
			t.Fatalf("online = %d, want 1", n)
		}
	case <-time.After(time.Second):
		t.Fatal("no active event after the active car was deleted")
	}
}

func TestPushReportsFullBuffer(t *testing.T) {
	t.Parallel()
	c := &WSClient{ID: "slow", Send: make(chan []byte, 1)}
	if !c.Push([]byte("1")) {
		t.Fatal("first push failed")
	}
	if c.Push([]byte("2")) {
		t.Fatal("push to a full buffer succeeded")
	}
}
