package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

const revocationPrefix = "revoked_token:"

// TokenRevocationStore keeps logged-out token ids in Redis until the token
// would have expired on its own.
type TokenRevocationStore struct {
	client *redis.Client
}

// NewTokenRevocationStore builds a revocation store over the shared client.
func NewTokenRevocationStore(r *Redis) *TokenRevocationStore {
	if r == nil {
		return &TokenRevocationStore{}
	}
	return &TokenRevocationStore{client: r.Client}
}

// Revoke denylists a token id for the remaining token lifetime.
func (s *TokenRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if s.client == nil {
		return errors.New("redis client not configured")
	}
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revocationPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether a token id is denylisted.
func (s *TokenRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.client == nil {
		return false, nil
	}
	n, err := s.client.Exists(ctx, revocationPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
