// Package cache - кэш списков (мурал вакансий). Память по умолчанию, Redis при REDIS_URL.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ignatzorin/extrasite-backend/internal/logger"
)

// Store - хранилище сериализованных значений с TTL.
type Store interface {
	// Get возвращает значение и false, если ключа нет или он истёк.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

// GetOrSet читает значение из кэша или вычисляет его через fn.
// Ошибки кэша только логируются: источником истины остаётся fn.
func GetOrSet[T any](ctx context.Context, store Store, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	log := logger.Component("cache").WithField("key", key)

	if raw, ok, err := store.Get(ctx, key); err != nil {
		log.WithError(err).Warn("cache get failed")
	} else if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		log.Warn("cache entry is corrupted, recomputing")
	}

	value, err := fn()
	if err != nil {
		return value, err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.WithError(err).Warn("cache marshal failed")
		return value, nil
	}
	if err := store.Set(ctx, key, raw, ttl); err != nil {
		log.WithError(err).Warn("cache set failed")
	}
	return value, nil
}

// Invalidate удаляет ключи по префиксу, ошибки логируются.
func Invalidate(ctx context.Context, store Store, prefix string) {
	if err := store.DeletePrefix(ctx, prefix); err != nil {
		logger.Component("cache").WithError(err).WithField("prefix", prefix).Warn("cache invalidation failed")
	}
}
