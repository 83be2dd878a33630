// Package cache хранит результаты внешних запросов (геокодирование) в redis
// или, если redis не настроен, в памяти процесса.
package cache

import (
	"context"
	"time"
)

// Cache — общий интерфейс хранилищ. Значения сериализуются в JSON.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}
