package cache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

const (
	memoryCapacity           = 10000
	memoryShards             = 64
	memoryEvictionPercentage = 10
)

// Memory is an in-process listing cache backed by sturdyc. It serves
// single-instance deployments and tests; the TTL is fixed at construction,
// so the per-call ttl argument to Set is ignored.
type Memory struct {
	client *sturdyc.Client[[]byte]
}

// NewMemory builds an in-process cache whose entries expire after ttl.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		client: sturdyc.New[[]byte](memoryCapacity, memoryShards, ttl, memoryEvictionPercentage),
	}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool) {
	return m.client.Get(key)
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.client.Set(key, value)
	return nil
}

func (m *Memory) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		m.client.Delete(key)
	}
	return nil
}
