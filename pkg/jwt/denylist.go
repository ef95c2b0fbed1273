package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist remembers signed-out token ids until the tokens would have expired.
type Denylist struct {
	redisClient redis.Cmdable
}

func NewDenylist(redisClient redis.Cmdable) *Denylist {
	return &Denylist{redisClient: redisClient}
}

func denylistKey(tokenID string) string {
	return fmt.Sprintf("session:revoked:%s", tokenID)
}

func (d *Denylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.redisClient.Set(ctx, denylistKey(tokenID), 1, ttl).Err()
}

func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := d.redisClient.Get(ctx, denylistKey(tokenID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
