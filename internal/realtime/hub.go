package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Moderation-panel event names. The panel performs a full reload on any of
// them rather than patching incrementally.
const (
	EventGuestQuestionSubmitted = "guest_question_submitted"
	EventGuestQuestionModerated = "guest_question_moderated"
	EventQuestionStateChanged   = "question_state_changed"
	EventBlockStatusChanged     = "block_status_changed"
)

// Publisher publishes conference events for cross-instance fan-out and for
// waking live broadcast loops.
type Publisher interface {
	PublishConferenceEvent(conferenceID int64, event string, payload []byte) error
}

// Subscriber subscribes to conference channels and invokes handler for
// incoming events.
type Subscriber interface {
	SubscribeConference(conferenceID int64, handler func(event string, payload []byte)) (cancel func(), err error)
}

// Hub maintains conference_id -> set of moderation-panel connections and
// broadcasts events. Local broadcast plus Redis publish, so panels on other
// instances converge too.
type Hub struct {
	conferences map[int64]map[string]*Client
	subs        map[int64]func() // cancel Redis subscription per conference
	mu          sync.RWMutex
	logger      *zap.Logger
	pub         Publisher
	sub         Subscriber
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger, pub Publisher, sub Subscriber) *Hub {
	return &Hub{
		conferences: make(map[int64]map[string]*Client),
		subs:        make(map[int64]func()),
		logger:      logger,
		pub:         pub,
		sub:         sub,
	}
}

// Register adds a client to a conference room. Starts the Redis subscription
// for this conference when the first client joins.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.conferences[c.ConferenceID] == nil {
		h.conferences[c.ConferenceID] = make(map[string]*Client)
		if h.sub != nil {
			cancel, err := h.sub.SubscribeConference(c.ConferenceID, func(event string, payload []byte) {
				h.broadcastLocal(c.ConferenceID, event, json.RawMessage(payload))
			})
			if err != nil {
				h.logger.Warn("conference subscription failed, events fan out locally only",
					zap.Int64("conference_id", c.ConferenceID), zap.Error(err))
			} else {
				h.subs[c.ConferenceID] = cancel
			}
		}
	}
	h.conferences[c.ConferenceID][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("moderation client joined", zap.String("client_id", c.ID), zap.Int64("conference_id", c.ConferenceID))
}

// Unregister removes a client. Cancels the Redis subscription when the last
// client of a conference leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.conferences[c.ConferenceID]; ok {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(h.conferences, c.ConferenceID)
			if cancel, ok := h.subs[c.ConferenceID]; ok {
				cancel()
				delete(h.subs, c.ConferenceID)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("moderation client left", zap.String("client_id", c.ID), zap.Int64("conference_id", c.ConferenceID))
}

// Notify publishes an event to Redis for every subscriber of the conference:
// moderation panels (local and remote) and live broadcast loops waiting on the
// wake channel. Local panels receive it through the hub's own subscription;
// when that subscription is missing or the publish fails, the event is
// broadcast to them directly.
func (h *Hub) Notify(conferenceID int64, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if h.pub != nil {
		if err := h.pub.PublishConferenceEvent(conferenceID, event, data); err == nil && h.subscribed(conferenceID) {
			return
		}
	}
	h.broadcastLocal(conferenceID, event, json.RawMessage(data))
}

func (h *Hub) subscribed(conferenceID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.subs[conferenceID]
	return ok
}

func (h *Hub) broadcastLocal(conferenceID int64, event string, data json.RawMessage) {
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	clients := h.conferences[conferenceID]
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// ClientCount returns the number of connected moderation clients for a conference.
func (h *Hub) ClientCount(conferenceID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conferences[conferenceID])
}
