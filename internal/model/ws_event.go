package model

import "encoding/json"

const (
	EventCarCreated     = "car:created"
	EventCarUpdated     = "car:updated"
	EventCarDeleted     = "car:deleted"
	EventCarViewed      = "car:viewed"
	EventServerAnnounce = "server:announce"
)

type WSEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type WSAnnounce struct {
	Message string `json:"message"`
}

type CarViewedEvent struct {
	CarID string `json:"car_id"`
	Views int64  `json:"views"`
}

// Feed session messages exchanged over the WebSocket.
const (
	EventFeedOpen    = "feed:open"
	EventFeedScroll  = "feed:scroll"
	EventFeedSwipe   = "feed:swipe"
	EventFeedActive  = "feed:active"
	EventFeedSettle  = "feed:settle"
	EventFeedProfile = "feed:profile"
)

type FeedOpenMessage struct {
	FeedType   FeedType      `json:"feed_type"`
	ItemHeight float64       `json:"item_height"`
	Filters    SearchFilters `json:"filters"`
}

type FeedScrollMessage struct {
	ScrollTop float64 `json:"scroll_top"`
}

type FeedSwipeMessage struct {
	StartX float64 `json:"start_x"`
	StartY float64 `json:"start_y"`
	EndX   float64 `json:"end_x"`
	EndY   float64 `json:"end_y"`
}

type FeedActiveEvent struct {
	Index int    `json:"index"`
	CarID string `json:"car_id"`
	Views int64  `json:"views"`
}

type FeedSettleEvent struct {
	Offset float64 `json:"offset"`
	Index  int     `json:"index"`
}

type FeedProfileEvent struct {
	OwnerID string `json:"owner_id"`
	CarID   string `json:"car_id"`
}
