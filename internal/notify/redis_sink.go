package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "notify:user:"

// RedisSink fans events out through Redis pub/sub for multi-node
// deployments: every node publishes here and relays into its local Hub,
// so a user connected to any node receives the event.
type RedisSink struct {
	client *redis.Client
}

func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

type redisMessage struct {
	UserID  int    `json:"userId"`
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

func (s *RedisSink) Publish(userID int, event string, payload any) error {
	data, err := json.Marshal(redisMessage{UserID: userID, Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal notify message: %w", err)
	}
	return s.client.Publish(context.Background(), channelPrefix+strconv.Itoa(userID), data).Err()
}

// Relay subscribes to every user channel and forwards into the local
// hub until ctx is cancelled. Run it on each node next to its Hub.
func (s *RedisSink) Relay(ctx context.Context, hub *Hub) {
	sub := s.client.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var m redisMessage
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				log.Printf("[Notify] bad relay message: %v", err)
				continue
			}
			hub.Publish(m.UserID, m.Event, m.Payload)
		}
	}
}
