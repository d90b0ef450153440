// internal/interleave/interleave.go
//
// Package interleave implements the host-fair scheduling (C2) the
// master seeder applies before pushing a chunk to the queue: no single
// host should be allowed to dominate the head of the queue just
// because it contributed the most URLs.
package interleave

import (
	"math"
	"math/rand/v2"
	"net/url"
	"strings"

	"github.com/leih66181-lang/aio-crawler/internal/queue"
)

// Interleave reorders entries into a host-fair sequence. Entries within
// a host keep their relative input order (the per-host buckets are
// FIFO); across hosts, a bucket is chosen by weighted random selection
// with weight log(remaining+1), repeated until every bucket is empty.
// take controls how many items are pulled from the chosen bucket per
// round (the source's HOST_TAKE_PER_ROUND, default 1).
//
// seed makes the selection reproducible: the same seed and input always
// produce the same output, which is required for the fairness tests and
// useful for debugging a specific run.
func Interleave(entries []queue.Entry, take int, seed uint64) []queue.Entry {
	if take <= 0 {
		take = 1
	}
	if len(entries) == 0 {
		return nil
	}

	buckets, order := groupByHost(entries)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	out := make([]queue.Entry, 0, len(entries))
	remaining := len(order)
	for remaining > 0 {
		host := pickBucket(order, buckets, rng)

		bucket := buckets[host]
		n := take
		if n > len(bucket) {
			n = len(bucket)
		}
		out = append(out, bucket[:n]...)
		bucket = bucket[n:]
		buckets[host] = bucket

		if len(bucket) == 0 {
			order = removeHost(order, host)
			delete(buckets, host)
			remaining--
		}
	}
	return out
}

// pickBucket selects one of the still-nonempty hosts in order, weighted
// by log(len(bucket)+1).
func pickBucket(order []string, buckets map[string][]queue.Entry, rng *rand.Rand) string {
	if len(order) == 1 {
		return order[0]
	}

	total := 0.0
	weights := make([]float64, len(order))
	for i, h := range order {
		w := math.Log(float64(len(buckets[h])) + 1)
		weights[i] = w
		total += w
	}

	r := rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return order[i]
		}
	}
	return order[len(order)-1]
}

// groupByHost buckets entries by normalized host, preserving input
// order within each bucket and first-appearance order across hosts.
// pickBucket walks the cumulative weights in that host order, so a
// fixed order is what keeps the draw reproducible for a given seed.
func groupByHost(entries []queue.Entry) (map[string][]queue.Entry, []string) {
	buckets := make(map[string][]queue.Entry)
	var order []string
	for _, e := range entries {
		host := normalizeHost(e.URL)
		if _, ok := buckets[host]; !ok {
			order = append(order, host)
		}
		buckets[host] = append(buckets[host], e)
	}
	return buckets, order
}

// normalizeHost lowercases the URL's authority and strips a leading
// "www." label. A URL that fails to parse maps to the empty host,
// which is its own bucket like any other.
func normalizeHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Host)
	return strings.TrimPrefix(host, "www.")
}

func removeHost(order []string, host string) []string {
	for i, h := range order {
		if h == host {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
