package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository stores each session as JSON under <prefix><hash> with a TTL matching
// its expiry, and indexes hashes per admin in the set <prefix>sub:<sub>.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository returns a repository using prefix, "session:" when empty.
func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(hash string) string { return r.prefix + hash }
func (r *RedisRepository) subKey(sub string) string { return r.prefix + "sub:" + sub }

func (r *RedisRepository) Create(ctx context.Context, s *Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, r.key(s.TokenHash), b, ttl)
		p.SAdd(ctx, r.subKey(s.Sub), s.TokenHash)
		// sessions share one TTL, so the newest one outlives the rest
		p.Expire(ctx, r.subKey(s.Sub), ttl)
		return nil
	})
	return err
}

func (r *RedisRepository) Get(ctx context.Context, hash string) (*Session, error) {
	b, err := r.client.Get(ctx, r.key(hash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisRepository) Delete(ctx context.Context, hash string) error {
	s, err := r.Get(ctx, hash)
	if err != nil || s == nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, r.key(hash))
		p.SRem(ctx, r.subKey(s.Sub), hash)
		return nil
	})
	return err
}

func (r *RedisRepository) DeleteBySub(ctx context.Context, sub string) (int64, error) {
	hashes, err := r.client.SMembers(ctx, r.subKey(sub)).Result()
	if err != nil {
		return 0, err
	}
	if len(hashes) == 0 {
		return 0, nil
	}
	keys := make([]string, 0, len(hashes))
	for _, h := range hashes {
		keys = append(keys, r.key(h))
	}
	n, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, err
	}
	return n, r.client.Del(ctx, r.subKey(sub)).Err()
}
