package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/eventhub/internal/domain/repository"
	"github.com/oksasatya/eventhub/pkg/helpers"
)

var _ repository.SessionRepository = (*RedisRepository)(nil)

// RedisRepository keeps the session record in Redis without expiry.
type RedisRepository struct {
	rdb *redis.Client
	key string
}

func NewRedisRepository(rdb *redis.Client, key string) *RedisRepository {
	return &RedisRepository{rdb: rdb, key: "session:" + key}
}

func (r *RedisRepository) Load(ctx context.Context) ([]byte, bool, error) {
	data, found, err := helpers.RedisGetBytes(ctx, r.rdb, r.key)
	if err != nil {
		return nil, false, fmt.Errorf("load session: %w", err)
	}
	return data, found, nil
}

func (r *RedisRepository) Save(ctx context.Context, data []byte) error {
	return helpers.RedisSetBytes(ctx, r.rdb, r.key, data, 0)
}

func (r *RedisRepository) Clear(ctx context.Context) error {
	return helpers.RedisDel(ctx, r.rdb, r.key)
}
