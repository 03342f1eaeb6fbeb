package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ddkspices/storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

type redisCartRepository struct {
	client *redis.Client
	key    string
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	redisURL := cfg.RedisConnect.GetDSN()
	slog.Info("Connecting to Redis", slog.String("host", cfg.RedisConnect.Host), slog.String("port", cfg.RedisConnect.Port))

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("✅ Successfully connected to Redis")

	return client, nil
}

func NewRedisCartRepo(client *redis.Client, cfg *config.Config) CartRepository {
	return &redisCartRepository{client: client, key: cfg.Cart.Key}
}

func (r *redisCartRepository) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("failed to get key %s from redis: %w", r.key, err)
	}

	return data, true, nil
}

func (r *redisCartRepository) Save(ctx context.Context, snapshot []byte) error {
	// The snapshot outlives sessions, so no TTL.
	if err := r.client.Set(ctx, r.key, snapshot, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %s in redis: %w", r.key, err)
	}

	return nil
}
