package redisqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pet-grooming-manager/internal/ports/notify"

	"github.com/redis/go-redis/v9"
)

const DefaultKey = "notifications:outbox"

// pusher es el subconjunto de *redis.Client que usamos (facilita tests).
type pusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// Sender encola cada notificación en una lista de Redis (outbox). Un proceso
// externo la consume y hace la entrega real.
type Sender struct {
	rdb pusher
	key string
	now func() time.Time
}

// Connect abre el cliente desde una URL redis:// y valida con PING.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func NewSender(rdb *redis.Client, key string) *Sender {
	return newSender(rdb, key)
}

func newSender(rdb pusher, key string) *Sender {
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultKey
	}
	return &Sender{rdb: rdb, key: key, now: time.Now}
}

type envelope struct {
	notify.Message
	EnqueuedAt time.Time `json:"enqueued_at"`
}

func (s *Sender) Send(ctx context.Context, m notify.Message) error {
	b, err := json.Marshal(envelope{Message: m, EnqueuedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("redisqueue: marshal: %w", err)
	}
	if err := s.rdb.LPush(ctx, s.key, b).Err(); err != nil {
		return fmt.Errorf("redisqueue: lpush %s: %w", s.key, err)
	}
	return nil
}
