package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/journal-backend/pkg/clientip"
	"github.com/AnshRaj112/journal-backend/pkg/logger"
)

const (
	// RateLimitKeyPrefix is the Redis key prefix for per-IP request counters.
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs.
	BlockedIPKeyPrefix = "blocked_ip:"
)

// RedisLimit is a fixed window shared by every instance behind the same Redis.
// An IP that goes over Max in one Window is blocked for Block.
type RedisLimit struct {
	Window time.Duration
	Max    int64
	Block  time.Duration
}

// DefaultRedisLimit allows 300 requests per 2 minutes, then blocks for 15 minutes.
var DefaultRedisLimit = RedisLimit{Window: 2 * time.Minute, Max: 300, Block: 15 * time.Minute}

// RedisRateLimit enforces l. A nil client disables it, and Redis errors let
// the request through.
func RedisRateLimit(rdb *redis.Client, l RedisLimit) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientip.RealClientIP(r)
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()

			blocked, err := rdb.Exists(ctx, BlockedIPKeyPrefix+ip).Result()
			if err == nil && blocked > 0 {
				tooManyRequests(w, "Your IP has been temporarily blocked due to excessive requests.")
				return
			}

			count, err := hit(ctx, rdb, RateLimitKeyPrefix+ip, l.Window)
			if err != nil {
				logger.Log.WithError(err).Warn("redis rate limit unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			if count > l.Max {
				if err := rdb.Set(ctx, BlockedIPKeyPrefix+ip, "1", l.Block).Err(); err != nil {
					logger.Log.WithError(err).WithField("ip", ip).Warn("failed to block ip")
				}
				tooManyRequests(w, "Rate limit exceeded. Please try again later.")
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(l.Max, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(l.Max-count, 10))
			next.ServeHTTP(w, r)
		})
	}
}

// hit increments the counter and starts the window in one MULTI/EXEC.
// ExpireNX leaves a running window alone and repairs a counter that lost
// its TTL.
func hit(ctx context.Context, rdb *redis.Client, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
