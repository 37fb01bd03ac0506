package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	errs "github.com/adminconsole/go-auth-client/internal/errors"
)

// RedisStore is a Redis-backed KeyValueStore for the durable scope in
// service deployments, where the auth subsystem runs behind a backend
// for frontend and sessions must survive process restarts.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ KeyValueStore = (*RedisStore)(nil)

// NewRedisStore wraps client with a key prefix and a TTL applied to
// every write. A zero ttl means keys do not expire.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return "", errors.Wrapf(errs.ErrKeyNotFound, "[RedisStore.Get] %q", key)
	}
	if err != nil {
		return "", errors.Wrap(err, "[RedisStore.Get] client.Get")
	}
	return value, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return errors.Wrap(err, "[RedisStore.Set] client.Set")
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return errors.Wrap(err, "[RedisStore.Delete] client.Del")
	}
	return nil
}
