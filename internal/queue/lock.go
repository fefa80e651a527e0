package queue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockHeld = errors.New("queue: lock already held")

const lockPrefix = "stoxwatch:lock:"

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Locker struct {
	redis *redis.Client
}

func NewLocker(client *redis.Client) *Locker {
	return &Locker{redis: client}
}

// Acquire takes key for ttl and returns the function that releases it.
// The release only deletes the key while this holder still owns it.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	token := uuid.NewString()
	full := lockPrefix + key

	ok, err := l.redis.SetNX(ctx, full, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.redis, []string{full}, token).Err()
	}
	return release, nil
}
