package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/bobcodebuilderai/eldoradokonferansehub/config"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
)

func TestShouldEmitCountersFirstFrame(t *testing.T) {
	assert.True(t, shouldEmitCounters(nil, &counters{}))
}

func TestShouldEmitCountersCoalescesSmallGrowth(t *testing.T) {
	last := &counters{Participants: 40, Responses: 10, HasActiveQuestion: true, ActiveQuestionID: 7}

	cur := *last
	cur.Responses = 14
	assert.False(t, shouldEmitCounters(last, &cur), "below threshold")

	cur.Responses = 15
	assert.True(t, shouldEmitCounters(last, &cur), "threshold reached")
}

func TestShouldEmitCountersOnReset(t *testing.T) {
	last := &counters{Responses: 10}
	cur := &counters{Responses: 0}
	assert.True(t, shouldEmitCounters(last, cur), "responses dropped, new question started")
}

func TestShouldEmitCountersOnParticipantMove(t *testing.T) {
	last := &counters{Participants: 40}
	cur := &counters{Participants: 41}
	assert.True(t, shouldEmitCounters(last, cur))
}

func TestShouldEmitCountersOnQuestionFlip(t *testing.T) {
	last := &counters{HasActiveQuestion: true, ActiveQuestionID: 7}

	cur := &counters{HasActiveQuestion: true, ActiveQuestionID: 8}
	assert.True(t, shouldEmitCounters(last, cur))

	cur = &counters{HasActiveQuestion: false}
	assert.True(t, shouldEmitCounters(last, cur))
}

func streamTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	id := uuid.NewString()
	c.Request = httptest.NewRequest(http.MethodGet, "/live/"+id, nil)
	c.Params = gin.Params{{Key: "uuid", Value: id}}
	return c, w
}

func idleStreamer(interval, keepalive, lifetime time.Duration) *Streamer {
	b := fixedBuilder(&fakeStore{
		conference:   &models.Conference{ID: 1, IsActive: true},
		participants: 3,
	})
	return NewStreamer(b, nil, config.StreamConfig{
		TickInterval:      interval,
		CountersInterval:  interval,
		KeepaliveInterval: keepalive,
		MaxLifetime:       lifetime,
	}, zap.NewNop())
}

func TestStreamPingsWhileIdle(t *testing.T) {
	s := idleStreamer(5*time.Millisecond, 20*time.Millisecond, 90*time.Millisecond)
	c, w := streamTestContext(t)

	s.Stream(c)

	body := w.Body.String()
	assert.Contains(t, body, "event:connected")
	assert.Equal(t, 1, strings.Count(body, "event:update"), "unchanged frames repaint nothing")
	assert.GreaterOrEqual(t, strings.Count(body, "event:ping"), 2, "keepalive fires on its own period")
	assert.Contains(t, body, "event:complete")
}

func TestCountersFeedPingsWhileIdle(t *testing.T) {
	s := idleStreamer(5*time.Millisecond, 20*time.Millisecond, 90*time.Millisecond)
	c, w := streamTestContext(t)

	s.StreamCounters(c)

	body := w.Body.String()
	assert.Contains(t, body, "event:connected")
	assert.Equal(t, 1, strings.Count(body, "event:update"))
	assert.GreaterOrEqual(t, strings.Count(body, "event:ping"), 2)
	assert.Contains(t, body, "event:complete")
}

func TestStreamErrorMessages(t *testing.T) {
	assert.Equal(t, "conference not found", streamErrorMessage(ErrConferenceNotFound))
	assert.Equal(t, "conference not active", streamErrorMessage(ErrConferenceInactive))
	assert.Equal(t, "temporary backend error", streamErrorMessage(assert.AnError))

	assert.True(t, isTerminal(ErrConferenceNotFound))
	assert.True(t, isTerminal(ErrConferenceInactive))
	assert.False(t, isTerminal(assert.AnError))
}
