package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const blocklistPrefix = "auth:blocklist:"

// TokenBlocklist menyimpan jti access token yang sudah logout
// sampai token tersebut kedaluwarsa.
type TokenBlocklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisTokenBlocklist struct {
	rdb *redis.Client
}

// NewTokenBlocklist: rdb nil => blocklist no-op (logout hanya menghapus cookie & refresh token).
func NewTokenBlocklist(rdb *redis.Client) TokenBlocklist {
	if rdb == nil {
		return noopTokenBlocklist{}
	}
	return &redisTokenBlocklist{rdb: rdb}
}

func (b *redisTokenBlocklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	return b.rdb.Set(ctx, blocklistPrefix+jti, "1", ttl).Err()
}

func (b *redisTokenBlocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	err := b.rdb.Get(ctx, blocklistPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type noopTokenBlocklist struct{}

func (noopTokenBlocklist) Revoke(context.Context, string, time.Duration) error {
	return nil
}

func (noopTokenBlocklist) IsRevoked(context.Context, string) (bool, error) {
	return false, nil
}
