// internal/queue/client.go
//
// Package queue also implements the queue client (C4): the crawler's
// only point of contact with the Redis-like list server that holds the
// work queue and the completion flag.
package queue

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	crawlerrors "github.com/leih66181-lang/aio-crawler/internal/errors"
)

// Client wraps a Redis connection with the small set of operations the
// master and workers need: atomic batch push, blocking multi-pop with
// a fallback for servers that lack BLMPOP, and the completion flag.
type Client struct {
	rdb *redis.Client
}

// New constructs a Client from a redis:// URL.
func New(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, crawlerrors.New(crawlerrors.KindQueue, "invalid redis url", err)
	}
	return &Client{rdb: redis.NewClient(opts)}, nil
}

// NewFromRDB wraps an already-constructed *redis.Client, primarily so
// tests can point a Client at a miniredis instance.
func NewFromRDB(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Reset deletes the queue and its completion flag, the seeder's
// startup step before it begins pushing a fresh run.
func (c *Client) Reset(ctx context.Context, key, flagKey string) error {
	if err := c.rdb.Del(ctx, key, flagKey).Err(); err != nil {
		return crawlerrors.New(crawlerrors.KindQueue, "reset failed", err)
	}
	return nil
}

// PushMany atomically pushes all of items to the head of key. Redis's
// LPUSH already accepts a variadic argument list and applies it
// atomically, so no pipeline or transaction is needed to get the
// all-or-nothing push the contract requires.
func (c *Client) PushMany(ctx context.Context, key string, items []string) error {
	if len(items) == 0 {
		return nil
	}
	args := make([]interface{}, len(items))
	for i, it := range items {
		args[i] = it
	}
	if err := c.rdb.LPush(ctx, key, args...).Err(); err != nil {
		return crawlerrors.New(crawlerrors.KindQueue, "push_many failed", err)
	}
	return nil
}

// SetFlag sets key to "1", the completion marker's exact contract.
func (c *Client) SetFlag(ctx context.Context, key string) error {
	if err := c.rdb.Set(ctx, key, "1", 0).Err(); err != nil {
		return crawlerrors.New(crawlerrors.KindQueue, "set_flag failed", err)
	}
	return nil
}

// GetFlag reports whether the completion marker is set.
func (c *Client) GetFlag(ctx context.Context, key string) (bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, crawlerrors.New(crawlerrors.KindQueue, "get_flag failed", err)
	}
	return val == "1", nil
}

// Length returns the current queue length.
func (c *Client) Length(ctx context.Context, key string) (int64, error) {
	n, err := c.rdb.LLen(ctx, key).Result()
	if err != nil {
		return 0, crawlerrors.New(crawlerrors.KindQueue, "length failed", err)
	}
	return n, nil
}

// BlockingMultiPop returns up to count items popped from the tail of
// key, blocking up to timeout for the first item. It prefers the
// server's native BLMPOP; if the server doesn't support it (an older
// Redis), it falls back to one blocking BRPOP plus up to count-1
// non-blocking RPOPs, matching the emulated contract exactly. An empty
// result (with a nil error) means the call timed out with nothing
// popped.
func (c *Client) BlockingMultiPop(ctx context.Context, key string, count int, timeout time.Duration) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}

	_, vals, err := c.rdb.BLMPop(ctx, timeout, "right", int64(count), key).Result()
	if err == nil {
		return vals, nil
	}
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if !isUnknownCommand(err) {
		return nil, crawlerrors.New(crawlerrors.KindQueue, "blocking_multi_pop failed", err)
	}

	return c.emulatedMultiPop(ctx, key, count, timeout)
}

// emulatedMultiPop is the fallback path for a Redis server without
// BLMPOP: a single blocking pop to wait for the first item, then up to
// count-1 non-blocking pops to fill out the batch without waiting
// further once the queue has gone quiet.
func (c *Client) emulatedMultiPop(ctx context.Context, key string, count int, timeout time.Duration) ([]string, error) {
	first, err := c.rdb.BRPop(ctx, timeout, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, crawlerrors.New(crawlerrors.KindQueue, "blocking_multi_pop fallback (brpop) failed", err)
	}
	// BRPop returns [key, value].
	items := []string{first[1]}

	for len(items) < count {
		val, err := c.rdb.RPop(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return items, crawlerrors.New(crawlerrors.KindQueue, "blocking_multi_pop fallback (rpop) failed", err)
		}
		items = append(items, val)
	}
	return items, nil
}

func isUnknownCommand(err error) bool {
	return strings.Contains(strings.ToUpper(err.Error()), "UNKNOWN COMMAND")
}
