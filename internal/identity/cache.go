package identity

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/AnshRaj112/journal-backend/pkg/logger"
)

const subjectKeyPrefix = "cache:subject:"

// ExpiringResolver is a Resolver that also reports when the token stops
// being valid. Only such resolvers can be cached: a subject must never
// outlive the token it came from.
type ExpiringResolver interface {
	Resolver
	SubjectUntil(ctx context.Context, idToken string) (string, time.Time, error)
}

// CachedResolver remembers token -> subject in Redis for at most ttl and
// never past the token's own expiry. Tokens are stored only as a digest.
// Redis failures fall through to the wrapped resolver; only successful
// resolutions are cached.
type CachedResolver struct {
	next ExpiringResolver
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedResolver(next ExpiringResolver, rdb *redis.Client, ttl time.Duration) *CachedResolver {
	return &CachedResolver{next: next, rdb: rdb, ttl: ttl}
}

func subjectKey(idToken string) string {
	sum := blake2b.Sum256([]byte(idToken))
	return subjectKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *CachedResolver) Subject(ctx context.Context, idToken string) (string, error) {
	key := subjectKey(idToken)

	subject, err := c.rdb.Get(ctx, key).Result()
	if err == nil && subject != "" {
		return subject, nil
	}
	if err != nil && err != redis.Nil {
		logger.Log.WithError(err).Warn("subject cache read failed")
	}

	subject, expires, err := c.next.SubjectUntil(ctx, idToken)
	if err != nil {
		return "", err
	}

	ttl := c.ttl
	if left := time.Until(expires); left < ttl {
		ttl = left
	}
	if ttl <= 0 {
		return subject, nil
	}
	if err := c.rdb.Set(ctx, key, subject, ttl).Err(); err != nil {
		logger.Log.WithError(err).Warn("subject cache write failed")
	}
	return subject, nil
}
