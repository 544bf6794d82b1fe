package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestMemoryRateLimiter(t *testing.T) {
	l := NewRateLimiter(50*time.Millisecond, 2)
	if !l.Allow("10.0.0.1") || !l.Allow("10.0.0.1") {
		t.Fatalf("expected first two requests allowed")
	}
	if l.Allow("10.0.0.1") {
		t.Fatalf("expected third request denied")
	}
	if !l.Allow("10.0.0.2") {
		t.Fatalf("expected other key to be independent")
	}
	if l.Allow("  ") {
		t.Fatalf("expected empty key rejected")
	}
	time.Sleep(70 * time.Millisecond)
	if !l.Allow("10.0.0.1") {
		t.Fatalf("expected window to slide")
	}
}

func TestMemoryRateLimiter_DropsIdleClients(t *testing.T) {
	l := NewRateLimiter(30*time.Millisecond, 5).(*memoryRateLimiter)
	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		l.Allow(ip)
	}
	if len(l.hits) != 3 {
		t.Fatalf("expected 3 tracked clients, got %d", len(l.hits))
	}

	time.Sleep(40 * time.Millisecond)
	if !l.Allow("10.0.0.9") {
		t.Fatalf("expected new client allowed")
	}
	if len(l.hits) != 1 {
		t.Fatalf("expected idle clients dropped, got %d tracked", len(l.hits))
	}
	if got := len(l.hits["10.0.0.9"]); got != 1 {
		t.Fatalf("expected single hit for new client, got %d", got)
	}
}

func TestRedisRateLimiterAllow(t *testing.T) {
	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisRateLimiter
		if !l.Allow("10.0.0.1") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := &redisRateLimiter{client: &mockRedisEvaler{result: 1}, window: time.Minute, max: 3, prefix: "cdp:rl:"}
		if l.Allow("   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := &redisRateLimiter{client: mock, window: 2 * time.Minute, max: 3, prefix: "cdp:rl:"}
		if !l.Allow(" Client-A ") {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "cdp:rl:client-a" {
			t.Fatalf("unexpected key normalization, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != redisAllowScript {
			t.Fatalf("expected script to match")
		}
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		l := &redisRateLimiter{client: &mockRedisEvaler{result: 4}, window: time.Minute, max: 3, prefix: "cdp:rl:"}
		if l.Allow("client-a") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := &redisRateLimiter{client: &mockRedisEvaler{err: errors.New("redis down")}, window: time.Minute, max: 3, prefix: "cdp:rl:"}
		if !l.Allow("client-a") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})
}
