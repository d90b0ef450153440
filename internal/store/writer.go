// internal/store/writer.go
//
// The batched writer (C9) is the single consumer of the worker pool's
// output channel. It is the only goroutine that touches its buffers,
// so no locking is needed around them.
package store

import (
	"context"
	"time"

	"github.com/leih66181-lang/aio-crawler/internal/log"
)

// WriteItem is one message on the writer's input channel: either a
// success or a failure outcome for a single task id.
type WriteItem struct {
	Success bool
	Task    string // the stored task identity: base_id or "<run>-<base_id>"

	SuccessRecord SuccessRecord
	FailureRecord FailureRecord
}

// Stats accumulates the writer's lifetime insert counts. Only the
// writer goroutine ever mutates these; readers are expected to read
// them through Totals after Run has returned.
type Stats struct {
	SuccessesInserted int64
	FailuresInserted  int64
}

// Writer buffers WriteItems in two plain (not shard-keyed) slices and
// flushes each one once it reaches batchSize, or on Run's exit when
// the input channel closes.
//
// Workers are not shard-affinitized, so a single buffer can accumulate
// records whose task ids belong to different shards. A flush routes
// the *entire* batch to the shard computed from its first record —
// this is the preserved "first-record determines shard" quirk: later
// records in the same flush that actually belong elsewhere are still
// written to the first record's shard rather than split out, matching
// source behavior rather than fixing it.
type Writer struct {
	store     Store
	threshold int64
	batchSize int
	logger    log.Logger

	successBuf []successItem
	failureBuf []failureItem

	stats Stats
}

type successItem struct {
	task   string
	record SuccessRecord
}

type failureItem struct {
	task   string
	record FailureRecord
}

// NewWriter constructs a Writer. threshold is the id-to-shard divisor
// (MONGO_SPLIT_THRESHOLD); batchSize is the per-buffer flush trigger
// (BATCH_SIZE).
func NewWriter(s Store, threshold int64, batchSize int, logger log.Logger) *Writer {
	return &Writer{
		store:     s,
		threshold: threshold,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run drains items until the channel closes, then performs a final
// flush of every remaining buffer. It blocks until draining and the
// final flush are both complete, so the caller can safely call
// w.Totals once Run returns.
//
// PROGRESS_<n>K is not printed here: the worker loop already emits it
// at PRINT_EVERY attempt boundaries, and printing it again here, keyed
// on items drained rather than attempts made, would produce a second,
// smaller, out-of-sync series on the same prefix.
func (w *Writer) Run(ctx context.Context, items <-chan WriteItem) {
	for item := range items {
		if item.Success {
			w.successBuf = append(w.successBuf, successItem{task: item.Task, record: item.SuccessRecord})
			if len(w.successBuf) >= w.batchSize {
				w.flushSuccesses(ctx)
			}
		} else {
			w.failureBuf = append(w.failureBuf, failureItem{task: item.Task, record: item.FailureRecord})
			if len(w.failureBuf) >= w.batchSize {
				w.flushFailures(ctx)
			}
		}
	}

	w.flushSuccesses(ctx)
	w.flushFailures(ctx)
}

func (w *Writer) flushSuccesses(ctx context.Context) {
	batch := w.successBuf
	if len(batch) == 0 {
		return
	}
	w.successBuf = nil

	shard := w.shardOf(batch[0].task)
	records := make([]SuccessRecord, len(batch))
	for i, it := range batch {
		records[i] = it.record
	}

	inserted, err := w.store.InsertSuccesses(ctx, shard, records)
	w.stats.SuccessesInserted += int64(inserted)
	if err != nil {
		// The store is the system's sink; a flush is never retried,
		// since persistent unavailability is an operational condition
		// the next full run recovers from via unique-id collision.
		w.logger.Errorf("writer: flush %d success records to shard %d: %v", len(records), shard, err)
	}
}

func (w *Writer) flushFailures(ctx context.Context) {
	batch := w.failureBuf
	if len(batch) == 0 {
		return
	}
	w.failureBuf = nil

	shard := w.shardOf(batch[0].task)
	records := make([]FailureRecord, len(batch))
	for i, it := range batch {
		records[i] = it.record
	}

	inserted, err := w.store.InsertFailures(ctx, shard, records)
	w.stats.FailuresInserted += int64(inserted)
	if err != nil {
		w.logger.Errorf("writer: flush %d failure records to shard %d: %v", len(records), shard, err)
	}
}

func (w *Writer) shardOf(task string) int64 {
	shard, ok := ShardForTaskID(task, w.threshold)
	if !ok {
		return 0
	}
	return shard
}

// Totals returns the writer's current insert counts. Safe to call once
// Run has returned.
func (w *Writer) Totals() Stats {
	return w.stats
}

// NormalizeTimestamp truncates t to the UTC, second-precision instant
// the data model requires for crawl_timestamp / failed_at.
func NormalizeTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
