package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const replyKeyPrefix = "chat_reply:"

// ReplyCache keeps assistant replies in Redis for a fixed TTL.
type ReplyCache struct {
	Client *redis.Client
	ttl    time.Duration
}

func NewReplyCache(client *redis.Client, ttl time.Duration) *ReplyCache {
	return &ReplyCache{Client: client, ttl: ttl}
}

func (r *ReplyCache) GetReply(ctx context.Context, key string) (string, bool, error) {
	val, err := r.Client.Get(ctx, replyKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *ReplyCache) SetReply(ctx context.Context, key, reply string) error {
	return r.Client.Set(ctx, replyKeyPrefix+key, reply, r.ttl).Err()
}

func (r *ReplyCache) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func (r *ReplyCache) Close() error {
	return r.Client.Close()
}
