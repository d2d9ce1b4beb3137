// Package feed tracks the active card of a vertically snapping listing feed.
//
// The feed is a column of full-height cards. While the user scrolls, the
// active card is the one nearest to the scroll offset; once scrolling has
// been quiet for the settle delay the feed snaps to that card.
package feed

import (
	"math"
	"sync"
	"time"
)

// DefaultSettleDelay is the quiet period after the last scroll event before
// the feed snaps to the nearest card.
const DefaultSettleDelay = 100 * time.Millisecond

// NoActive is the index reported when the feed is empty.
const NoActive = -1

type Option func(*Tracker)

// WithSettleDelay overrides DefaultSettleDelay.
func WithSettleDelay(d time.Duration) Option {
	return func(t *Tracker) { t.settleDelay = d }
}

// OnActivate registers fn to be called with the new index whenever the active
// card changes to a valid card.
func OnActivate(fn func(index int)) Option {
	return func(t *Tracker) { t.onActivate = fn }
}

// OnSettle registers fn to be called with the snapped scroll offset after the
// settle delay.
func OnSettle(fn func(offset float64)) Option {
	return func(t *Tracker) { t.onSettle = fn }
}

// Tracker is safe for concurrent use. Callbacks run without the lock held;
// OnSettle runs on a timer goroutine.
type Tracker struct {
	mu          sync.Mutex
	count       int
	itemHeight  float64
	active      int
	lastOffset  float64
	settleDelay time.Duration
	timer       *time.Timer
	stopped     bool

	onActivate func(int)
	onSettle   func(float64)
}

// NewTracker returns a tracker over count cards of itemHeight pixels. The
// first card is active unless count is zero.
func NewTracker(count int, itemHeight float64, opts ...Option) *Tracker {
	t := &Tracker{
		itemHeight:  itemHeight,
		settleDelay: DefaultSettleDelay,
		active:      NoActive,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.setCountLocked(count)
	return t
}

// Active returns the active card index, or NoActive when the feed is empty.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// IndexAt returns the card nearest to scrollTop, without bounds checking.
func IndexAt(scrollTop, itemHeight float64) int {
	if itemHeight <= 0 {
		return 0
	}
	return int(math.Round(scrollTop / itemHeight))
}

// SnapOffset returns the offset of the card nearest to scrollTop.
func SnapOffset(scrollTop, itemHeight float64) float64 {
	if itemHeight <= 0 {
		return 0
	}
	return math.Round(scrollTop/itemHeight) * itemHeight
}

// Scroll records a scroll event and returns the active index afterwards.
// Indexes outside [0, count-1] are ignored. Each call restarts the settle timer.
func (t *Tracker) Scroll(scrollTop float64) int {
	t.mu.Lock()
	if t.stopped || t.itemHeight <= 0 {
		active := t.active
		t.mu.Unlock()
		return active
	}

	t.lastOffset = scrollTop
	changed := false
	idx := IndexAt(scrollTop, t.itemHeight)
	if idx != t.active && idx >= 0 && idx < t.count {
		t.active = idx
		changed = true
	}
	active := t.active

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.settleDelay, t.settle)
	t.mu.Unlock()

	if changed && t.onActivate != nil {
		t.onActivate(active)
	}
	return active
}

func (t *Tracker) settle() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	offset := SnapOffset(t.lastOffset, t.itemHeight)
	t.timer = nil
	t.mu.Unlock()

	if t.onSettle != nil {
		t.onSettle(offset)
	}
}

// SetCount changes the number of cards, pulling the active index back inside
// the new bounds.
func (t *Tracker) SetCount(count int) int {
	t.mu.Lock()
	changed := t.setCountLocked(count)
	active := t.active
	t.mu.Unlock()

	if changed && active != NoActive && t.onActivate != nil {
		t.onActivate(active)
	}
	return active
}

func (t *Tracker) setCountLocked(count int) bool {
	if count < 0 {
		count = 0
	}
	t.count = count
	prev := t.active
	switch {
	case count == 0:
		t.active = NoActive
	case t.active == NoActive:
		t.active = 0
	case t.active >= count:
		t.active = count - 1
	}
	return prev != t.active
}

// Remove drops the card at index. Cards above the active one shift the active
// index down so the same card stays active. Removing the active card itself
// activates whichever card slides into its place.
func (t *Tracker) Remove(index int) int {
	t.mu.Lock()
	if index < 0 || index >= t.count {
		active := t.active
		t.mu.Unlock()
		return active
	}
	removedActive := index == t.active
	if index < t.active {
		t.active--
		if t.lastOffset >= t.itemHeight {
			t.lastOffset -= t.itemHeight
		}
	}
	clamped := t.setCountLocked(t.count - 1)
	active := t.active
	t.mu.Unlock()

	if (removedActive || clamped) && active != NoActive && t.onActivate != nil {
		t.onActivate(active)
	}
	return active
}

// SetItemHeight updates the card height, e.g. after a viewport resize.
func (t *Tracker) SetItemHeight(h float64) {
	t.mu.Lock()
	t.itemHeight = h
	t.mu.Unlock()
}

// Stop cancels a pending settle. Later calls to Scroll are ignored.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
