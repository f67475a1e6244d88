package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// feedChannel carries post-created events between instances so every
// connected client hears about new posts regardless of which instance
// accepted the upload.
const feedChannel = "feed:posts:broadcast"

// envelope wraps a published payload with the originating hub's id so an
// instance can ignore its own publishes; its local clients already got the
// payload directly in Broadcast.
type envelope struct {
	Origin string `json:"origin"`
	Data   []byte `json:"data"`
}

type Hub struct {
	id      string
	redis   *redis.Client
	clients map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	Send chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		id:      uuid.NewString(),
		redis:   redisClient,
		clients: map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register() *Client {
	client := &Client{
		Send: make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
	}
}

// Broadcast delivers a payload to local clients exactly once and publishes
// it for other instances. Slow clients are skipped rather than blocking the
// caller.
func (h *Hub) Broadcast(payload []byte) {
	h.deliver(payload)

	if h.redis != nil {
		msg, err := json.Marshal(envelope{Origin: h.id, Data: payload})
		if err != nil {
			log.Printf("stream envelope encode error: %v", err)
			return
		}
		if err := h.redis.Publish(context.Background(), feedChannel, msg).Err(); err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) deliver(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.Subscribe(ctx, feedChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			log.Printf("stream envelope decode error: %v", err)
			continue
		}
		if env.Origin == h.id {
			continue
		}
		h.deliver(env.Data)
	}
}
