// Package lock provides short-lived named mutual exclusion used to serialize
// checkouts of the same user.
package lock

import (
	"context"
	"errors"
	"time"
)

var ErrHeld = errors.New("lock is held by another caller")

// Release gives the lock back. It is safe to call after the TTL expired.
type Release func(ctx context.Context) error

type Locker interface {
	// Acquire takes key for at most ttl or fails with ErrHeld without waiting.
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}
