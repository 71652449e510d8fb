package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alextreichler/storefront-console/internal/models"
)

// RedisStore keeps each notification under its own key with a native TTL.
// A sorted set per session, scored by a per-session sequence, preserves
// insertion order.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "notify"}
}

func (s *RedisStore) indexKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, sessionID)
}

func (s *RedisStore) seqKey(sessionID string) string {
	return fmt.Sprintf("%s:%s:seq", s.prefix, sessionID)
}

func (s *RedisStore) itemKey(sessionID, id string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, sessionID, id)
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, n models.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	ttl := n.ExpiresAt.Sub(n.CreatedAt)
	if ttl <= 0 {
		ttl = time.Millisecond
	}

	keys := []string{s.itemKey(sessionID, n.ID), s.indexKey(sessionID), s.seqKey(sessionID)}
	return appendScript.Run(ctx, s.rdb, keys, data, n.ID, ttl.Milliseconds()).Err()
}

// appendScript stores the item and indexes it under the next sequence
// number of the session. KEYS: item, index, sequence. ARGV: payload, id, ttl ms.
var appendScript = redis.NewScript(`
local seq = redis.call('INCR', KEYS[3])
redis.call('PEXPIRE', KEYS[3], ARGV[3])
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
redis.call('ZADD', KEYS[2], seq, ARGV[2])
redis.call('PEXPIRE', KEYS[2], ARGV[3])
return seq
`)

func (s *RedisStore) Active(ctx context.Context, sessionID string, now time.Time) ([]models.Notification, error) {
	ids, err := s.rdb.ZRange(ctx, s.indexKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.itemKey(sessionID, id)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	var (
		out   []models.Notification
		stale []any
	)
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var n models.Notification
		if err := json.Unmarshal([]byte(raw), &n); err != nil || n.Expired(now) {
			stale = append(stale, ids[i])
			continue
		}
		out = append(out, n)
	}
	if len(stale) > 0 {
		if err := s.rdb.ZRem(ctx, s.indexKey(sessionID), stale...).Err(); err != nil {
			return out, err
		}
	}
	return out, nil
}

func (s *RedisStore) Remove(ctx context.Context, sessionID, id string) error {
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, s.itemKey(sessionID, id))
	pipe.ZRem(ctx, s.indexKey(sessionID), id)
	_, err := pipe.Exec(ctx)
	return err
}
