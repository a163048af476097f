package live

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestView() (*ViewState, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	return NewViewStateAt(clock.now), clock
}

func TestApplyFirstFrameRendersEverything(t *testing.T) {
	v, _ := newTestView()
	snap := snapshot()

	assert.Equal(t, QuestionChanged, v.Apply(snap))
	assert.Same(t, snap, v.Current())
	assert.True(t, v.Transitioning())
}

func TestApplyDropsFramesDuringTransition(t *testing.T) {
	v, clock := newTestView()
	require.Equal(t, QuestionChanged, v.Apply(snapshot()))

	// mid-animation: a new question arrives and is dropped
	clock.advance(300 * time.Millisecond)
	next := snapshot()
	next.ActiveQuestionID = qid(8)
	assert.Equal(t, Unchanged, v.Apply(next))
	assert.Equal(t, int64(7), v.Current().QuestionID())
	assert.Equal(t, 1, v.Dropped())

	// lock expired: the next frame carries the switch
	clock.advance(301 * time.Millisecond)
	assert.False(t, v.Transitioning())
	assert.Equal(t, QuestionChanged, v.Apply(next))
	assert.Equal(t, int64(8), v.Current().QuestionID())
}

func TestApplyCountersNeverLock(t *testing.T) {
	v, clock := newTestView()
	v.Apply(snapshot())
	clock.advance(transitionDuration)

	next := snapshot()
	next.Responses = 13
	assert.Equal(t, CountersOnly, v.Apply(next))
	assert.False(t, v.Transitioning())
	assert.Equal(t, 13, v.Current().Responses)

	// counter repaints keep flowing back to back
	again := snapshot()
	again.Responses = 14
	assert.Equal(t, CountersOnly, v.Apply(again))
	assert.Equal(t, 14, v.Current().Responses)
}

func TestApplyResultsToggleLocks(t *testing.T) {
	v, clock := newTestView()
	v.Apply(snapshot())
	clock.advance(transitionDuration)

	next := snapshot()
	next.ShowResults = true
	assert.Equal(t, ResultsToggled, v.Apply(next))
	assert.True(t, v.Transitioning())
}

func TestApplyGuestQuestionLocks(t *testing.T) {
	v, clock := newTestView()
	v.Apply(snapshot())
	clock.advance(transitionDuration)

	next := snapshot()
	next.DisplayedGuestQuestion = &DisplayedQuestion{ID: 3}
	assert.Equal(t, GuestQuestionChanged, v.Apply(next))
	assert.True(t, v.Transitioning())
}

func TestApplyUnchangedFramesAreFree(t *testing.T) {
	v, clock := newTestView()
	v.Apply(snapshot())
	clock.advance(transitionDuration)

	assert.Equal(t, Unchanged, v.Apply(snapshot()))
	assert.Zero(t, v.Dropped())
	assert.False(t, v.Transitioning())
}

func TestDroppedCountsOnlyRealChanges(t *testing.T) {
	v, clock := newTestView()
	v.Apply(snapshot())

	// identical frame during the lock is not a drop
	clock.advance(100 * time.Millisecond)
	v.Apply(snapshot())
	assert.Zero(t, v.Dropped())

	// a counters-only frame during the lock is dropped like any other change
	changed := snapshot()
	changed.Responses = 99
	assert.Equal(t, Unchanged, v.Apply(changed))
	assert.Equal(t, 1, v.Dropped())
	assert.Equal(t, snapshot().Responses, v.Current().Responses)
}
