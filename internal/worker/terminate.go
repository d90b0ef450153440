// internal/worker/terminate.go
//
// The termination controller (C10) is the single supervisory routine
// that decides when the run is over: all seeding is done, the queue is
// drained, and nothing is still in flight.
package worker

import (
	"context"
	"time"

	"github.com/leih66181-lang/aio-crawler/internal/config"
	"github.com/leih66181-lang/aio-crawler/internal/progress"
	"github.com/leih66181-lang/aio-crawler/internal/store"
)

// FlagQueue is the subset of the queue client the controller polls.
type FlagQueue interface {
	GetFlag(ctx context.Context, key string) (bool, error)
	Length(ctx context.Context, key string) (int64, error)
}

// Pool runs CONCURRENCY Loop instances and supervises their collective
// termination.
type Pool struct {
	q       FlagQueue
	cfg     *config.Config
	stats   *Stats
	printer *progress.Printer

	loops []*Loop
	stop  chan struct{}
}

// NewPool constructs a Pool over the given loops (the caller builds
// them, normally cfg.Concurrency of them sharing one queue client,
// fetcher, writer channel, and stats); q is polled by supervise.
func NewPool(loops []*Loop, q FlagQueue, cfg *config.Config, stats *Stats, printer *progress.Printer) *Pool {
	return &Pool{q: q, cfg: cfg, stats: stats, printer: printer, loops: loops, stop: make(chan struct{})}
}

// Run starts every Loop, supervises termination by polling once a
// second, then closes the writer channel with a sentinel (channel
// close). The caller is expected to have already started the writer
// on the other end of items; Run returning means every Loop has
// stopped and the writer channel has been closed, but the writer's
// own final flush may still be draining — callers wait on that
// separately (e.g. by running the writer synchronously in its own
// goroutine and joining it after Run returns).
func (p *Pool) Run(ctx context.Context, items chan<- store.WriteItem) {
	done := make(chan struct{})
	for _, loop := range p.loops {
		loop := loop
		go func() {
			loop.Run(ctx, p.stop)
			done <- struct{}{}
		}()
	}

	p.printer.WorkersReady(len(p.loops))
	go p.supervise(ctx)

	for range p.loops {
		<-done
	}
	p.printer.WorkersStopped(int(p.stats.Successes.Load()), int(p.stats.Failures.Load()))
	close(items)
}

// supervise polls every second for two independent things: the first
// time any Loop records a consume (CONSUME_READY/PERSIST_READY fire
// off of that, not off the completion marker), and the stop condition
// — the completion marker is set, the queue is empty, and nothing is
// in flight.
func (p *Pool) supervise(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	consumeReported := false
	for {
		select {
		case <-ctx.Done():
			close(p.stop)
			return
		case <-ticker.C:
		}

		if !consumeReported && p.stats.FirstConsume.Load() {
			p.printer.ConsumeReady()
			p.printer.PersistReady()
			consumeReported = true
		}

		flagSet, err := p.q.GetFlag(ctx, config.CompletionFlagKey)
		if err != nil {
			continue
		}
		if !flagSet {
			continue
		}

		length, err := p.q.Length(ctx, p.cfg.TaskList)
		if err != nil {
			continue
		}
		if length == 0 && p.stats.InFlight.Load() == 0 {
			close(p.stop)
			return
		}
	}
}
