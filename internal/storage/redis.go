package storage

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// RedisAdapter persists collections as plain Redis string values, one
// key per entity collection.
type RedisAdapter struct {
	client rueidis.Client
	logger *zap.Logger
}

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	DBIndex  int
}

// NewRedis connects a Redis-backed adapter.
func NewRedis(opts RedisOptions, logger *zap.Logger) (*RedisAdapter, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%d", opts.Host, opts.Port)},
		Username:    opts.Username,
		Password:    opts.Password,
		SelectDB:    opts.DBIndex,
		ClientName:  "communitystore",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis client: %w", err)
	}

	logger.Info("Created Redis storage adapter",
		zap.String("host", opts.Host),
		zap.Int("port", opts.Port),
		zap.Int("dbIndex", opts.DBIndex))

	return &RedisAdapter{
		client: client,
		logger: logger.Named("redis_storage"),
	}, nil
}

// NewRedisWithClient wraps an existing client; tests use this with a
// miniredis-backed connection.
func NewRedisWithClient(client rueidis.Client, logger *zap.Logger) *RedisAdapter {
	return &RedisAdapter{
		client: client,
		logger: logger.Named("redis_storage"),
	}
}

// Read returns the value stored under key, if any.
func (a *RedisAdapter) Read(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := a.client.Do(ctx, a.client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}

	return value, true, nil
}

// Write stores value under key.
func (a *RedisAdapter) Write(ctx context.Context, key string, value []byte) error {
	err := a.client.Do(ctx,
		a.client.B().Set().Key(key).Value(rueidis.BinaryString(value)).Build(),
	).Error()
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}

	return nil
}

// Remove deletes key.
func (a *RedisAdapter) Remove(ctx context.Context, key string) error {
	err := a.client.Do(ctx, a.client.B().Del().Key(key).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}

	return nil
}

// Close shuts down the underlying client.
func (a *RedisAdapter) Close() error {
	a.client.Close()
	return nil
}
