package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory — кэш в памяти процесса. Значения хранятся в JSON, чтобы
// поведение Get совпадало с redis.
type Memory struct {
	c *gocache.Cache
}

// NewMemory создаёт кэш с временем жизни по умолчанию ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{c: gocache.New(ttl, 2*ttl)}
}

func (m *Memory) Get(_ context.Context, key string, result any) (bool, error) {
	const op = "cache.Memory.Get"
	raw, ok := m.c.Get(key)
	if !ok {
		return false, nil
	}
	data, ok := raw.([]byte)
	if !ok {
		return false, fmt.Errorf("%s: unexpected value type %T", op, raw)
	}
	if err := json.Unmarshal(data, result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value any, expiration time.Duration) error {
	const op = "cache.Memory.Set"
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	m.c.Set(key, data, expiration)
	return nil
}

func (m *Memory) Invalidate(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}
