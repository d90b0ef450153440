// internal/worker/loop.go
//
// Package worker implements the worker loop (C7) and the termination
// controller (C10). A Pool runs CONCURRENCY independent Loop instances
// that share one queue client, one fetcher, one writer channel, and
// one Stats object.
package worker

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/leih66181-lang/aio-crawler/internal/classify"
	"github.com/leih66181-lang/aio-crawler/internal/config"
	crawlerrors "github.com/leih66181-lang/aio-crawler/internal/errors"
	"github.com/leih66181-lang/aio-crawler/internal/fetch"
	"github.com/leih66181-lang/aio-crawler/internal/log"
	"github.com/leih66181-lang/aio-crawler/internal/progress"
	"github.com/leih66181-lang/aio-crawler/internal/queue"
	"github.com/leih66181-lang/aio-crawler/internal/store"
)

// QueueClient is the subset of the queue client a Loop needs.
type QueueClient interface {
	BlockingMultiPop(ctx context.Context, key string, count int, timeout time.Duration) ([]string, error)
	PushMany(ctx context.Context, key string, items []string) error
}

// Fetcher is the subset of the fetch client a Loop needs.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, lightMode bool) (*fetch.Result, error)
}

// Loop is one worker's polling/fetch/classify cycle. Many Loops share
// the same q, fetcher, writer channel, and stats.
type Loop struct {
	q       QueueClient
	fetcher Fetcher
	writer  chan<- store.WriteItem
	stats   *Stats
	cfg     *config.Config
	logger  log.Logger
	printer *progress.Printer

	lastGot time.Time
}

// NewLoop constructs a Loop.
func NewLoop(q QueueClient, fetcher Fetcher, writer chan<- store.WriteItem, stats *Stats, cfg *config.Config, logger log.Logger, printer *progress.Printer) *Loop {
	return &Loop{q: q, fetcher: fetcher, writer: writer, stats: stats, cfg: cfg, logger: logger, printer: printer, lastGot: time.Now()}
}

// Run executes the loop until stop is closed (the Pool's supervise
// closes it once the completion marker is set, the queue is empty and
// nothing is in flight), or this Loop has been idle for
// IDLE_QUIT_AFTER — the crashed-master escape hatch. stop is only
// consulted at the top of the loop; an in-flight fetch always runs to
// completion under its own timeout.
func (l *Loop) Run(ctx context.Context, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		batch, err := l.q.BlockingMultiPop(ctx, l.cfg.TaskList, l.cfg.BatchPop, l.cfg.BRPopTimeout)
		if err != nil {
			crawlerrors.Log(l.logger, "worker: pop failed", err)
			continue
		}

		if len(batch) == 0 {
			if time.Since(l.lastGot) >= l.cfg.IdleQuitAfter {
				return
			}
			continue
		}

		l.lastGot = time.Now()
		l.stats.FirstConsume.Store(true)
		l.stats.InFlight.Add(int64(len(batch)))

		for _, raw := range batch {
			l.processOne(ctx, raw)
		}
	}
}

func (l *Loop) processOne(ctx context.Context, raw string) {
	defer l.stats.InFlight.Add(-1)

	entry, err := queue.Decode(raw)
	if err != nil {
		l.logger.Debugf("worker: dropping malformed entry %q: %v", raw, err)
		return
	}

	result, err := l.fetcher.Fetch(ctx, entry.URL, l.cfg.LightMode)
	if err != nil {
		// An unparseable URL, a request that could not be built, or a
		// context canceled while waiting for a concurrency slot reaches
		// here; treat it like any other non-response outcome rather
		// than crash the worker.
		result = &fetch.Result{OK: false}
	}

	n := l.stats.Attempts.Add(1)
	if l.cfg.PrintEvery > 0 && n%int64(l.cfg.PrintEvery) == 0 {
		l.printer.ProgressK(int(n))
	}

	taskID := store.TaskID(l.cfg.RunID, entry.BaseID)

	decision := classify.Classify(result.OK, result.Status, entry.Attempt, l.cfg.MaxRetries)
	switch decision {
	case classify.Success:
		l.stats.Successes.Add(1)
		l.writer <- store.WriteItem{
			Success: true,
			Task:    taskID,
			SuccessRecord: store.SuccessRecord{
				ID:         taskID,
				URL:        entry.URL,
				Host:       hostOf(entry.URL),
				HTTPStatus: statusOrZero(result.Status),
				CrawledAt:  store.NormalizeTimestamp(time.Now()),
				HTML:       result.HTML,
				HTMLLen:    result.HTMLLen,
			},
		}

	case classify.Retry:
		l.requeue(ctx, entry)

	case classify.TerminalFail:
		l.stats.Failures.Add(1)
		l.writer <- store.WriteItem{
			Success: false,
			Task:    taskID,
			FailureRecord: store.FailureRecord{
				TaskID:   taskID,
				URL:      entry.URL,
				Host:     hostOf(entry.URL),
				Status:   statusString(result.Status),
				FailedAt: store.NormalizeTimestamp(time.Now()),
				Rounds:   entry.Attempt,
			},
		}
	}
}

// requeue re-pushes entry with attempt+1 to the queue head. The push
// is attempted twice as a hedge against a transient client error; if
// both attempts fail the task is dropped silently, a loss that is
// counted only implicitly (it simply never reaches the writer).
func (l *Loop) requeue(ctx context.Context, entry queue.Entry) {
	next := queue.Entry{BaseID: entry.BaseID, Attempt: entry.Attempt + 1, URL: entry.URL}
	encoded := queue.Encode(next)

	for i := 0; i < 2; i++ {
		if err := l.q.PushMany(ctx, l.cfg.TaskList, []string{encoded}); err == nil {
			return
		}
	}
	l.logger.Warnf("worker: abandoning retry push for base_id %d after two failed attempts", entry.BaseID)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

func statusOrZero(status *int) int {
	if status == nil {
		return 0
	}
	return *status
}

func statusString(status *int) string {
	if status == nil {
		return "ERR"
	}
	return strconv.Itoa(*status)
}
