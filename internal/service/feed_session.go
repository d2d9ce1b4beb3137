package service

import (
	"context"
	"encoding/json"
	"log"
	"slices"
	"sync"
	"time"

	"carstok-backend/internal/feed"
	"carstok-backend/internal/model"
)

const viewTimeout = 5 * time.Second

// FeedSession follows one client scrolling through a feed. It records a view
// each time a card becomes active and reports snaps and profile swipes back
// through send.
type FeedSession struct {
	cars    *CarService
	send    func(*model.WSEvent)
	tracker *feed.Tracker

	mu      sync.Mutex
	listing []model.Car
}

// OpenFeedSession loads the feed described by msg and starts tracking it.
// The first card counts as viewed immediately.
func OpenFeedSession(ctx context.Context, feeds *FeedService, cars *CarService, msg model.FeedOpenMessage, send func(*model.WSEvent)) (*FeedSession, error) {
	feedType := msg.FeedType
	if feedType == "" {
		feedType = model.FeedSales
	}
	listing, err := feeds.Feed(ctx, feedType, msg.Filters)
	if err != nil {
		return nil, err
	}

	s := &FeedSession{cars: cars, send: send, listing: listing}
	s.tracker = feed.NewTracker(len(listing), msg.ItemHeight,
		feed.OnActivate(s.activated),
		feed.OnSettle(s.settled),
	)
	if idx := s.tracker.Active(); idx != feed.NoActive {
		s.activated(idx)
	}
	return s, nil
}

func (s *FeedSession) Tracker() *feed.Tracker {
	return s.tracker
}

func (s *FeedSession) carAt(idx int) (model.Car, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.listing) {
		return model.Car{}, false
	}
	return s.listing[idx], true
}

func (s *FeedSession) activated(idx int) {
	car, ok := s.carAt(idx)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), viewTimeout)
	defer cancel()

	views := car.Views
	if s.cars != nil {
		v, err := s.cars.RecordView(ctx, car.ID)
		if err != nil {
			log.Printf("[FEED] record view %s: %v", car.ID, err)
		} else {
			views = v
		}
	}
	s.emit(model.EventFeedActive, model.FeedActiveEvent{Index: idx, CarID: car.ID, Views: views})
}

func (s *FeedSession) settled(offset float64) {
	s.emit(model.EventFeedSettle, model.FeedSettleEvent{Offset: offset, Index: s.tracker.Active()})
}

// Scroll forwards a scroll offset to the tracker.
func (s *FeedSession) Scroll(scrollTop float64) int {
	return s.tracker.Scroll(scrollTop)
}

// Swipe reports the owner of the active card when the gesture is a profile swipe.
func (s *FeedSession) Swipe(msg model.FeedSwipeMessage) (string, bool) {
	idx, ok := s.tracker.Swipe(feed.Point{X: msg.StartX, Y: msg.StartY}, feed.Point{X: msg.EndX, Y: msg.EndY})
	if !ok {
		return "", false
	}
	car, ok := s.carAt(idx)
	if !ok {
		return "", false
	}
	s.emit(model.EventFeedProfile, model.FeedProfileEvent{OwnerID: car.OwnerID, CarID: car.ID})
	return car.OwnerID, true
}

// Remove drops a deleted listing from the session. The active card stays
// active unless it is the one removed.
func (s *FeedSession) Remove(carID string) {
	s.mu.Lock()
	idx := slices.IndexFunc(s.listing, func(c model.Car) bool { return c.ID == carID })
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.listing = slices.Delete(s.listing, idx, idx+1)
	s.mu.Unlock()
	s.tracker.Remove(idx)
}

func (s *FeedSession) Close() {
	s.tracker.Stop()
}

func (s *FeedSession) emit(eventType string, payload any) {
	if s.send == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	s.send(&model.WSEvent{Type: eventType, Data: data})
}
