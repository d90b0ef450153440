// internal/fetch/limiter.go
//
// This file implements concurrency limiting for outbound HTTP requests,
// both globally (CONNECT_LIMIT) and per-host (LIMIT_PER_HOST). It keeps
// the crawler from opening more connections to one authority than it
// was configured to, and from exceeding the overall in-flight cap.
//
// Slots are weighted semaphores from golang.org/x/sync/semaphore, which
// already encode exactly this "N concurrent holders, context-cancellable
// acquire" contract without hand-rolled channel bookkeeping.
package fetch

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// hostLimiter bounds concurrent requests globally and per authority.
type hostLimiter struct {
	global *semaphore.Weighted

	mu      sync.Mutex
	perHost map[string]*semaphore.Weighted
	perMax  int64
}

// newHostLimiter constructs a limiter with the given global and
// per-host concurrency limits.
func newHostLimiter(globalMax, perHostMax int) *hostLimiter {
	if globalMax <= 0 {
		globalMax = 1
	}
	if perHostMax <= 0 {
		perHostMax = 1
	}
	return &hostLimiter{
		global:  semaphore.NewWeighted(int64(globalMax)),
		perHost: make(map[string]*semaphore.Weighted),
		perMax:  int64(perHostMax),
	}
}

// acquire reserves one global slot and one slot for host. It respects
// context cancellation and releases the global slot if the per-host
// acquire fails.
func (l *hostLimiter) acquire(ctx context.Context, host string) error {
	if err := l.global.Acquire(ctx, 1); err != nil {
		return err
	}

	sem := l.hostSemaphore(host)
	if err := sem.Acquire(ctx, 1); err != nil {
		l.global.Release(1)
		return err
	}
	return nil
}

// release frees the slots held for host.
func (l *hostLimiter) release(host string) {
	l.hostSemaphore(host).Release(1)
	l.global.Release(1)
}

func (l *hostLimiter) hostSemaphore(host string) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()

	sem, ok := l.perHost[host]
	if !ok {
		sem = semaphore.NewWeighted(l.perMax)
		l.perHost[host] = sem
	}
	return sem
}
