package cache

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewRedisCacheRejectsBadURL(t *testing.T) {
	if _, err := NewRedisCache("not-a-redis-url", time.Minute, zap.NewNop()); err == nil {
		t.Fatal("expected error for invalid url")
	}
}
