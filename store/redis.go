package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// presenceTTL bounds how long a stale heartbeat lingers in Redis.
const presenceTTL = 10 * time.Minute

// RedisPresence stores heartbeats in Redis so presence survives restarts and
// can be shared between processes.
type RedisPresence struct {
	client *redis.Client
}

func NewRedisPresence(addr, password string) (*RedisPresence, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisPresence{client: client}, nil
}

func presenceField(tableID, playerID string) string {
	return fmt.Sprintf("presence:%s:%s", tableID, playerID)
}

func (r *RedisPresence) Touch(ctx context.Context, tableID, playerID string) error {
	return r.client.Set(ctx, presenceField(tableID, playerID),
		time.Now().UnixMilli(), presenceTTL).Err()
}

func (r *RedisPresence) LastSeen(ctx context.Context, tableID, playerID string) (time.Time, error) {
	ms, err := r.client.Get(ctx, presenceField(tableID, playerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, ErrNotSeen
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

func (r *RedisPresence) Forget(ctx context.Context, tableID, playerID string) error {
	return r.client.Del(ctx, presenceField(tableID, playerID)).Err()
}

func (r *RedisPresence) Close() error {
	return r.client.Close()
}
