package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Dedup remembers processed ids per service so a redelivered event is handled once.
type Dedup struct {
	rdb     redis.Cmdable
	service string
	ttl     time.Duration
}

func NewDedup(rdb redis.Cmdable, service string) *Dedup {
	return &Dedup{rdb: rdb, service: service, ttl: TTLDedup}
}

// Seen reports whether id was already processed.
func (d *Dedup) Seen(ctx context.Context, id string) (bool, error) {
	n, err := d.rdb.Exists(ctx, DedupKey(d.service, id)).Result()
	if err != nil {
		return false, fmt.Errorf("redis dedup lookup %s: %w", id, err)
	}
	return n > 0, nil
}

// Mark records id as processed for the dedup TTL.
func (d *Dedup) Mark(ctx context.Context, id string) error {
	if err := d.rdb.Set(ctx, DedupKey(d.service, id), "1", d.ttl).Err(); err != nil {
		return fmt.Errorf("redis dedup mark %s: %w", id, err)
	}
	return nil
}
