package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultMaxAttempts = 5
	DefaultLockout     = 15 * time.Minute
)

// attemptScript increments the counter and starts the window on the first
// attempt. Running both in one script keeps a burst of concurrent logins from
// slipping past the limit between the read and the write.
var attemptScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// LoginLimiter counts login attempts per username. A successful login resets
// the counter, so what remains are failures.
// Key format: login:fail:<username>
//
// The window starts at the first attempt and is not extended by later ones,
// so a locked-out user can retry once the key expires.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultLockout
	}
	return &LoginLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Attempt counts one attempt for username and reports whether it is within
// the limit.
func (l *LoginLimiter) Attempt(ctx context.Context, username string) (bool, error) {
	n, err := attemptScript.Run(ctx, l.client, []string{l.key(username)}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("login limiter attempt: %w", err)
	}
	return n <= l.maxAttempts, nil
}

func (l *LoginLimiter) Reset(ctx context.Context, username string) error {
	if err := l.client.Del(ctx, l.key(username)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(username string) string {
	return "login:fail:" + username
}
