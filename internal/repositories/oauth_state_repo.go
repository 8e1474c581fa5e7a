package repositories

import (
	"context"
	"time"
)

// OAuthStateRepository remembers the state nonces handed out at the start of a login, each bound
// to the provider it was issued for.
type OAuthStateRepository interface {
	// Save stores state for ttl.
	Save(ctx context.Context, state, provider string, ttl time.Duration) error
	// Consume removes state and returns its provider. ok is false when the state is unknown,
	// expired or already consumed.
	Consume(ctx context.Context, state string) (provider string, ok bool, err error)
}
