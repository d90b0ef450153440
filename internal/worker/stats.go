// internal/worker/stats.go
package worker

import "sync/atomic"

// Stats holds the counters shared across every worker goroutine and
// read by the termination controller. All fields are accessed only
// through atomic operations; increments strictly precede the work they
// count and decrements strictly follow it, which is what makes the
// termination controller's "in-flight == 0" check meaningful.
type Stats struct {
	InFlight     atomic.Int64
	Attempts     atomic.Int64
	Successes    atomic.Int64
	Failures     atomic.Int64
	FirstConsume atomic.Bool
}
