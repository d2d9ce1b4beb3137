package feed

import "math"

// SwipeThreshold is the minimum horizontal travel, in pixels, of a profile swipe.
const SwipeThreshold = 50

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsProfileSwipe reports whether the gesture from start to end is a right to
// left swipe that opens the owner profile: horizontal travel dominates the
// vertical one and exceeds SwipeThreshold.
func IsProfileSwipe(start, end Point) bool {
	dx := end.X - start.X
	dy := end.Y - start.Y
	return dx < 0 && math.Abs(dx) > math.Abs(dy) && math.Abs(dx) > SwipeThreshold
}

// Swipe returns the active index when the gesture is a profile swipe.
func (t *Tracker) Swipe(start, end Point) (int, bool) {
	if !IsProfileSwipe(start, end) {
		return NoActive, false
	}
	active := t.Active()
	return active, active != NoActive
}
