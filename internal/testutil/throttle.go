package testutil

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ThrottleStoreStub is an in-memory stand-in for the redis commands the
// login throttle issues. Setting Err makes every command fail, exercising
// the fail-open path.
type ThrottleStoreStub struct {
	mu      sync.Mutex
	counts  map[string]int64
	windows map[string]time.Duration
	Err     error
}

// NewThrottleStoreStub builds an empty stub.
func NewThrottleStoreStub() *ThrottleStoreStub {
	return &ThrottleStoreStub{
		counts:  make(map[string]int64),
		windows: make(map[string]time.Duration),
	}
}

func (s *ThrottleStoreStub) Get(_ context.Context, key string) *redis.StringCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return redis.NewStringResult("", s.Err)
	}
	count, ok := s.counts[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(strconv.FormatInt(count, 10), nil)
}

func (s *ThrottleStoreStub) Incr(_ context.Context, key string) *redis.IntCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return redis.NewIntResult(0, s.Err)
	}
	s.counts[key]++
	return redis.NewIntResult(s.counts[key], nil)
}

func (s *ThrottleStoreStub) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return redis.NewBoolResult(false, s.Err)
	}
	s.windows[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (s *ThrottleStoreStub) Del(_ context.Context, keys ...string) *redis.IntCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return redis.NewIntResult(0, s.Err)
	}
	var removed int64
	for _, key := range keys {
		if _, ok := s.counts[key]; ok {
			delete(s.counts, key)
			delete(s.windows, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

// Count reports the stored failure counter for a key.
func (s *ThrottleStoreStub) Count(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key]
}

// Window reports the expiry set for a key, or zero when none was set.
func (s *ThrottleStoreStub) Window(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.windows[key]
}
