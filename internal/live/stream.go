package live

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bobcodebuilderai/eldoradokonferansehub/config"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/realtime"
)

// SSE event names on the live feeds.
const (
	eventConnected = "connected"
	eventUpdate    = "update"
	eventPing      = "ping"
	eventError     = "error"
	eventComplete  = "complete"
)

// countersEmitThreshold is how many new responses the counters feed swallows
// before pushing an update, keeping that feed cheap for projector overlays.
const countersEmitThreshold = 5

// updatePayload is the body of an update event on the full feed.
type updatePayload struct {
	Change string `json:"change"`
	*Snapshot
}

// counters is the body of an update event on the counters feed.
type counters struct {
	Participants      int   `json:"participants"`
	Responses         int   `json:"responses"`
	HasActiveQuestion bool  `json:"hasActiveQuestion"`
	ActiveQuestionID  int64 `json:"activeQuestionId"`
	Timestamp         int64 `json:"timestamp"`
}

// Streamer serves the SSE live feeds. Each connection runs its own poll loop
// against the store; a Redis wake subscription shortcuts the poll interval
// when a moderator mutates state.
type Streamer struct {
	builder *Builder
	pubsub  *realtime.RedisPubSub
	cfg     config.StreamConfig
	logger  *zap.Logger
}

// NewStreamer creates the live feed streamer.
func NewStreamer(builder *Builder, pubsub *realtime.RedisPubSub, cfg config.StreamConfig, logger *zap.Logger) *Streamer {
	return &Streamer{builder: builder, pubsub: pubsub, cfg: cfg, logger: logger}
}

func sseHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
}

func (s *Streamer) send(c *gin.Context, event string, data interface{}) {
	c.SSEvent(event, data)
	c.Writer.Flush()
}

// Stream handles GET /live/:uuid: the full viewer feed. Ticks every
// TickInterval, emits update only when the frame actually changed, pings on a
// fixed keepalive period regardless of data changes, and closes with complete
// after MaxLifetime so proxies recycle the connection.
func (s *Streamer) Stream(c *gin.Context) {
	sseHeaders(c)

	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		s.send(c, eventError, gin.H{"message": "invalid conference id"})
		return
	}

	ctx := c.Request.Context()
	conf, err := s.builder.Resolve(ctx, id)
	if err != nil {
		s.send(c, eventError, gin.H{"message": streamErrorMessage(err)})
		return
	}

	s.send(c, eventConnected, gin.H{"conference_id": conf.ID, "name": conf.Name})

	wake, stopWake := s.wake(conf.ID)
	defer stopWake()

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()
	keepalive := time.NewTicker(s.cfg.KeepaliveInterval)
	defer keepalive.Stop()
	lifetime := time.NewTimer(s.cfg.MaxLifetime)
	defer lifetime.Stop()

	var prev *Snapshot

	for {
		select {
		case <-ctx.Done():
			return
		case <-lifetime.C:
			s.send(c, eventComplete, gin.H{"message": "stream lifetime reached, reconnect"})
			return
		case <-keepalive.C:
			s.send(c, eventPing, gin.H{"timestamp": time.Now().Unix()})
			continue
		case <-wake:
		case <-ticker.C:
		}

		if _, err := s.builder.Resolve(ctx, id); err != nil {
			if isTerminal(err) {
				s.send(c, eventError, gin.H{"message": streamErrorMessage(err)})
				return
			}
			s.logger.Warn("live resolve failed", zap.Error(err))
			continue
		}

		snap, err := s.builder.Build(ctx, conf.ID)
		if err != nil {
			s.logger.Warn("live snapshot failed", zap.Error(err))
			s.send(c, eventError, gin.H{"message": "temporary backend error"})
			continue
		}

		if change := Compare(prev, snap); change != Unchanged {
			s.send(c, eventUpdate, updatePayload{Change: change.String(), Snapshot: snap})
		}
		prev = snap
	}
}

// StreamCounters handles GET /live/:uuid/counters: a slow, cheap feed of
// participant and response counters. Response growth below the emit threshold
// is coalesced.
func (s *Streamer) StreamCounters(c *gin.Context) {
	sseHeaders(c)

	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		s.send(c, eventError, gin.H{"message": "invalid conference id"})
		return
	}

	ctx := c.Request.Context()
	conf, err := s.builder.Resolve(ctx, id)
	if err != nil {
		s.send(c, eventError, gin.H{"message": streamErrorMessage(err)})
		return
	}

	s.send(c, eventConnected, gin.H{"conference_id": conf.ID})

	ticker := time.NewTicker(s.cfg.CountersInterval)
	defer ticker.Stop()
	keepalive := time.NewTicker(s.cfg.KeepaliveInterval)
	defer keepalive.Stop()
	lifetime := time.NewTimer(s.cfg.MaxLifetime)
	defer lifetime.Stop()

	var last *counters

	for {
		select {
		case <-ctx.Done():
			return
		case <-lifetime.C:
			s.send(c, eventComplete, gin.H{"message": "stream lifetime reached, reconnect"})
			return
		case <-keepalive.C:
			s.send(c, eventPing, gin.H{"timestamp": time.Now().Unix()})
			continue
		case <-ticker.C:
		}

		if _, err := s.builder.Resolve(ctx, id); err != nil {
			if isTerminal(err) {
				s.send(c, eventError, gin.H{"message": streamErrorMessage(err)})
				return
			}
			s.logger.Warn("counters resolve failed", zap.Error(err))
			continue
		}

		snap, err := s.builder.Build(ctx, conf.ID)
		if err != nil {
			s.logger.Warn("counters snapshot failed", zap.Error(err))
			continue
		}
		cur := &counters{
			Participants:      snap.Participants,
			Responses:         snap.Responses,
			HasActiveQuestion: snap.HasActiveQuestion,
			ActiveQuestionID:  snap.QuestionID(),
			Timestamp:         snap.Timestamp,
		}

		if shouldEmitCounters(last, cur) {
			s.send(c, eventUpdate, cur)
			last = cur
		}
	}
}

// shouldEmitCounters decides whether the counters feed pushes a frame.
// Question flips and participant moves always emit; response growth waits for
// the threshold so a burst of votes becomes one frame, not five.
func shouldEmitCounters(last, cur *counters) bool {
	if last == nil {
		return true
	}
	if cur.ActiveQuestionID != last.ActiveQuestionID ||
		cur.HasActiveQuestion != last.HasActiveQuestion ||
		cur.Participants != last.Participants {
		return true
	}
	delta := cur.Responses - last.Responses
	return delta >= countersEmitThreshold || delta < 0
}

func (s *Streamer) wake(conferenceID int64) (<-chan struct{}, func()) {
	if s.pubsub == nil {
		return nil, func() {}
	}
	ch, cancel, err := s.pubsub.Wake(conferenceID)
	if err != nil {
		s.logger.Warn("live wake subscription failed, falling back to polling",
			zap.Int64("conference_id", conferenceID), zap.Error(err))
		return nil, func() {}
	}
	return ch, cancel
}

func isTerminal(err error) bool {
	return errors.Is(err, ErrConferenceNotFound) || errors.Is(err, ErrConferenceInactive)
}

func streamErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrConferenceNotFound):
		return "conference not found"
	case errors.Is(err, ErrConferenceInactive):
		return "conference not active"
	default:
		return "temporary backend error"
	}
}
