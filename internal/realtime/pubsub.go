package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	channelPrefix  = "conference:"
	publishTimeout = 5 * time.Second
)

// redisPayload is the message published to Redis for cross-instance broadcast.
type redisPayload struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	At    int64           `json:"at"`
}

// RedisPubSub bridges conference events over Redis pub/sub. Mutation endpoints
// publish here; moderation-panel hubs and live broadcast loops subscribe.
type RedisPubSub struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPubSub creates a Redis pub/sub bridge for conference events.
func NewRedisPubSub(client *redis.Client, logger *zap.Logger) *RedisPubSub {
	return &RedisPubSub{client: client, logger: logger}
}

func channelFor(conferenceID int64) string {
	return channelPrefix + strconv.FormatInt(conferenceID, 10)
}

// PublishConferenceEvent publishes an event to the conference's Redis channel.
func (r *RedisPubSub) PublishConferenceEvent(conferenceID int64, event string, payload []byte) error {
	body, err := json.Marshal(redisPayload{Event: event, Data: payload, At: time.Now().Unix()})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return r.client.Publish(ctx, channelFor(conferenceID), body).Err()
}

// SubscribeConference subscribes to a conference's Redis channel and calls
// handler for each message. Returns a cancel function to stop the subscription.
func (r *RedisPubSub) SubscribeConference(conferenceID int64, handler func(event string, payload []byte)) (cancel func(), err error) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	pubsub := r.client.Subscribe(ctx, channelFor(conferenceID))
	if _, err = pubsub.Receive(ctx); err != nil {
		cancelCtx()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var p redisPayload
				if err := json.Unmarshal([]byte(msg.Payload), &p); err != nil {
					continue
				}
				handler(p.Event, p.Data)
			}
		}
	}()
	return func() { cancelCtx() }, nil
}

// Wake subscribes to a conference's channel and signals on the returned
// channel whenever any event arrives. Broadcast loops use this to rebuild
// immediately after a mutation instead of waiting out the poll interval.
// The signal channel has a buffer of one; coalesced wakes are fine since the
// next rebuild reads the latest truth anyway.
func (r *RedisPubSub) Wake(conferenceID int64) (ch <-chan struct{}, cancel func(), err error) {
	wake := make(chan struct{}, 1)
	cancel, err = r.SubscribeConference(conferenceID, func(string, []byte) {
		select {
		case wake <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return wake, cancel, nil
}
