package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePublisher struct {
	events []string
	err    error
}

func (p *fakePublisher) PublishConferenceEvent(conferenceID int64, event string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type fakeSubscriber struct {
	subscribed []int64
	cancelled  int
	err        error
}

func (s *fakeSubscriber) SubscribeConference(conferenceID int64, handler func(event string, payload []byte)) (func(), error) {
	if s.err != nil {
		return nil, s.err
	}
	s.subscribed = append(s.subscribed, conferenceID)
	return func() { s.cancelled++ }, nil
}

func newTestClient(id string, conferenceID int64) *Client {
	return &Client{ID: id, ConferenceID: conferenceID, send: make(chan WSMessage, sendBuffer)}
}

func TestHubRegisterUnregisterCounts(t *testing.T) {
	sub := &fakeSubscriber{}
	hub := NewHub(zap.NewNop(), nil, sub)

	a := newTestClient("a", 7)
	b := newTestClient("b", 7)
	hub.Register(a)
	hub.Register(b)

	assert.Equal(t, 2, hub.ClientCount(7))
	assert.Equal(t, 0, hub.ClientCount(8))
	// one Redis subscription per conference, not per client
	assert.Equal(t, []int64{7}, sub.subscribed)

	hub.Unregister(a)
	assert.Equal(t, 1, hub.ClientCount(7))
	assert.Equal(t, 0, sub.cancelled)

	hub.Unregister(b)
	assert.Equal(t, 0, hub.ClientCount(7))
	assert.Equal(t, 1, sub.cancelled)
}

func TestHubNotifyPublishesToRedis(t *testing.T) {
	pub := &fakePublisher{}
	hub := NewHub(zap.NewNop(), pub, &fakeSubscriber{})

	c := newTestClient("a", 3)
	hub.Register(c)

	hub.Notify(3, EventQuestionStateChanged, map[string]int64{"conference_id": 3})

	require.Equal(t, []string{EventQuestionStateChanged}, pub.events)
	// local delivery happens through the Redis subscription, not directly
	assert.Empty(t, c.send)
}

func TestHubNotifyDeliversLocallyWithoutSubscription(t *testing.T) {
	pub := &fakePublisher{}
	hub := NewHub(zap.NewNop(), pub, &fakeSubscriber{err: assert.AnError})

	c := newTestClient("a", 3)
	hub.Register(c)

	hub.Notify(3, EventQuestionStateChanged, map[string]int64{"conference_id": 3})

	// publish still reaches remote instances and wake channels
	require.Equal(t, []string{EventQuestionStateChanged}, pub.events)
	// with no subscription feeding the room, the hub broadcasts directly
	require.Len(t, c.send, 1)
	assert.Equal(t, EventQuestionStateChanged, (<-c.send).Event)
}

func TestHubNotifyFallsBackToLocalBroadcast(t *testing.T) {
	pub := &fakePublisher{err: assert.AnError}
	hub := NewHub(zap.NewNop(), pub, nil)

	c := newTestClient("a", 3)
	other := newTestClient("b", 4)
	hub.Register(c)
	hub.Register(other)

	hub.Notify(3, EventBlockStatusChanged, map[string]int64{"block_id": 12})

	require.Len(t, c.send, 1)
	msg := <-c.send
	assert.Equal(t, EventBlockStatusChanged, msg.Event)

	var payload map[string]int64
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Equal(t, int64(12), payload["block_id"])

	assert.Empty(t, other.send, "other conferences must not receive the event")
}

func TestHubBroadcastSkipsFullBuffers(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)

	c := &Client{ID: "a", ConferenceID: 5, send: make(chan WSMessage, 1)}
	hub.Register(c)

	hub.Notify(5, EventGuestQuestionSubmitted, nil)
	hub.Notify(5, EventGuestQuestionSubmitted, nil)

	// second frame dropped, call must not block
	assert.Len(t, c.send, 1)
}
