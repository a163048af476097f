package live

import (
	"sync"
	"time"
)

// transitionDuration is how long a viewer animates between scenes. Updates
// landing mid-animation are dropped, not queued; the next frame after the
// lock clears carries the latest truth anyway.
const transitionDuration = 600 * time.Millisecond

// ViewState mirrors what a connected viewer is showing and applies incoming
// frames the way the on-screen client does. Embedded displays (kiosk overlay,
// stage monitor) drive their rendering through it.
type ViewState struct {
	mu              sync.Mutex
	now             func() time.Time
	current         *Snapshot
	transitionUntil time.Time
	dropped         int
}

// NewViewState creates a view state with the real clock.
func NewViewState() *ViewState {
	return &ViewState{now: time.Now}
}

// NewViewStateAt creates a view state with an injected clock.
func NewViewStateAt(now func() time.Time) *ViewState {
	return &ViewState{now: now}
}

// Apply feeds one frame into the view. The returned change tells the caller
// what to render. Scene-level changes start the transition lock; any changed
// frame arriving while the lock is held, counter repaints included, is
// dropped and reported as Unchanged. Counter repaints never start a lock.
func (v *ViewState) Apply(snap *Snapshot) Change {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	change := Compare(v.current, snap)

	if now.Before(v.transitionUntil) {
		if change != Unchanged {
			v.dropped++
		}
		return Unchanged
	}

	switch change {
	case QuestionChanged, ResultsToggled, GuestQuestionChanged:
		v.transitionUntil = now.Add(transitionDuration)
		v.current = snap
	case CountersOnly:
		v.current = snap
	case Unchanged:
		v.current = snap
	}
	return change
}

// Transitioning reports whether the view is inside its animation lock.
func (v *ViewState) Transitioning() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now().Before(v.transitionUntil)
}

// Current returns the last applied frame, nil before the first one.
func (v *ViewState) Current() *Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Dropped counts frames discarded during transition locks since creation.
func (v *ViewState) Dropped() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dropped
}
