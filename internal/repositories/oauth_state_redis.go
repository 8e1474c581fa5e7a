package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const oauthStatePrefix = "storefront:oauth_state:"

// RedisOAuthStateRepository keeps login states in Redis so that any instance behind a load
// balancer can finish a login started on another.
type RedisOAuthStateRepository struct {
	client *redis.Client
}

// NewRedisOAuthStateRepository wraps an existing client.
func NewRedisOAuthStateRepository(client *redis.Client) *RedisOAuthStateRepository {
	return &RedisOAuthStateRepository{client: client}
}

// Save stores state with the given expiry.
func (r *RedisOAuthStateRepository) Save(ctx context.Context, state, provider string, ttl time.Duration) error {
	if err := r.client.Set(ctx, oauthStatePrefix+state, provider, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save oauth state: %w", err)
	}
	return nil
}

// Consume atomically reads and deletes state.
func (r *RedisOAuthStateRepository) Consume(ctx context.Context, state string) (string, bool, error) {
	provider, err := r.client.GetDel(ctx, oauthStatePrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to consume oauth state: %w", err)
	}
	return provider, true, nil
}
