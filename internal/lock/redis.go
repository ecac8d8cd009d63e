// Package lock provides a Redis-backed per-user lock so that strike
// escalation is serialized across every moderator instance:
//
//	Key:   lock:strike:<user_id>
//	Value: <random token>
//	TTL:   lock lease
package lock

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/whisper/market-chat/internal/escalation"
)

const (
	// LockPrefix is the Redis key prefix for strike locks.
	LockPrefix = "lock:strike:"

	// DefaultLease bounds how long a crashed holder can keep a user locked.
	DefaultLease = 10 * time.Second

	// DefaultRetry is the wait between acquisition attempts.
	DefaultRetry = 25 * time.Millisecond
)

// ErrNotAcquired is returned when ctx ends before the lock is acquired.
var ErrNotAcquired = errors.New("lock: not acquired")

// RedisLocker implements escalation.Locker with SET NX and a token-checked
// release.
type RedisLocker struct {
	client        *redis.Client
	lease         time.Duration
	retry         time.Duration
	releaseScript *redis.Script
}

var _ escalation.Locker = (*RedisLocker)(nil)

// NewRedisLocker creates a RedisLocker with the default lease and retry.
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{
		client:        client,
		lease:         DefaultLease,
		retry:         DefaultRetry,
		releaseScript: redis.NewScript(releaseLua),
	}
}

// Lock blocks until the lock for userID is held or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, userID int64) (func(), error) {
	key := LockPrefix + strconv.FormatInt(userID, 10)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.lease).Result()
		if err != nil {
			return nil, fmt.Errorf("lock: setnx %s: %w", key, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, ctx.Err())
		case <-timer.C:
		}
	}

	return func() {
		// Release with a fresh context so a cancelled caller still frees
		// the lock instead of waiting for the lease to expire.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := l.releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			log.Printf("[lock] release %s: %v", key, err)
		}
	}, nil
}

// releaseLua deletes the key only if it still holds our token, so an
// expired lease never frees a lock taken over by another holder.
const releaseLua = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`
