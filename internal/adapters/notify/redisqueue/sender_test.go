package redisqueue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"pet-grooming-manager/internal/ports/notify"

	"github.com/redis/go-redis/v9"
)

type fakePusher struct {
	key    string
	values []interface{}
	err    error
}

func (f *fakePusher) LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.key = key
	f.values = append(f.values, values...)
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	cmd.SetVal(int64(len(f.values)))
	return cmd
}

func TestSender_EnqueuesEnvelope(t *testing.T) {
	fp := &fakePusher{}
	s := newSender(fp, "")
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	err := s.Send(context.Background(), notify.Message{NotificationID: "n-1", Channel: "email", Body: "hola"})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if fp.key != DefaultKey || len(fp.values) != 1 {
		t.Fatalf("unexpected push: key=%q values=%d", fp.key, len(fp.values))
	}

	raw, ok := fp.values[0].([]byte)
	if !ok {
		t.Fatalf("expected []byte payload, got %T", fp.values[0])
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.NotificationID != "n-1" || env.Body != "hola" || !env.EnqueuedAt.Equal(now) {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestSender_PropagatesRedisError(t *testing.T) {
	boom := errors.New("connection refused")
	s := newSender(&fakePusher{err: boom}, "custom")
	if err := s.Send(context.Background(), notify.Message{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped redis error, got %v", err)
	}
}
