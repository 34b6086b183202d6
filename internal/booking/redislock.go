package booking

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLocker is a lease-based Locker shared by every process pointed at the
// same Redis. A lease outlives a crashed holder by at most ttl.
type RedisLocker struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	retry  time.Duration
	prefix string
	log    *slog.Logger
}

var releaseLeaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration, prefix string, log *slog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "curbee:booking"
	}
	if log == nil {
		log = slog.Default()
	}
	return &RedisLocker{
		rdb:    rdb,
		ttl:    ttl,
		retry:  25 * time.Millisecond,
		prefix: prefix,
		log:    log.With(slog.String("component", "booking.redis_lock")),
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	k := l.prefix + ":" + key
	token := uuid.NewString()

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		ok, err := l.rdb.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		timer.Reset(l.retry)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseLeaseScript.Run(ctx, l.rdb, []string{k}, token).Err(); err != nil {
			l.log.Warn("lease release failed", slog.String("key", k), slog.Any("err", err))
		}
	}, nil
}
