package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

// SetJSON stores a marshalled value under key with a TTL. A no-op when redis
// was never initialized.
func SetJSON(ctx context.Context, key string, value any, expiration time.Duration) {
	if Rdb == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to marshal redis value")
		return
	}
	if err := Rdb.Set(ctx, key, payload, expiration).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to add key to redis")
	}
}

// GetJSON loads and unmarshals a value. Returns false on miss or any error;
// callers treat the cache as best-effort.
func GetJSON(ctx context.Context, key string, dst any) bool {
	if Rdb == nil {
		return false
	}
	payload, err := Rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Error().Err(err).Str("key", key).Msg("failed to read key from redis")
		}
		return false
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to unmarshal redis value")
		return false
	}
	return true
}
