// internal/master/seeder.go
//
// Package master implements the master seeder (C3): it reads the input
// URL list, chunks it, host-interleaves each chunk, and pushes the
// result to the queue before setting the completion marker.
package master

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/leih66181-lang/aio-crawler/internal/config"
	crawlerrors "github.com/leih66181-lang/aio-crawler/internal/errors"
	"github.com/leih66181-lang/aio-crawler/internal/interleave"
	"github.com/leih66181-lang/aio-crawler/internal/log"
	"github.com/leih66181-lang/aio-crawler/internal/queue"
)

// QueuePusher is the subset of the queue client the seeder needs; a
// narrow interface keeps this package's tests off a live Redis.
type QueuePusher interface {
	Reset(ctx context.Context, key, flagKey string) error
	PushMany(ctx context.Context, key string, items []string) error
	SetFlag(ctx context.Context, key string) error
}

// Progress reports the milestones the seeder is required to print.
type Progress interface {
	EnqueueProgress(pushed int)
	EnqueueComplete(total int)
}

// Seeder reads the input CSV and drives the queue from it.
type Seeder struct {
	q        QueuePusher
	cfg      *config.Config
	logger   log.Logger
	progress Progress

	// interleaveSeed is resolved once per Seeder: the configured value
	// if non-zero, otherwise a seed drawn from process entropy so that
	// InterleaveSeed == 0 actually behaves like "random", and every
	// chunk within one run still interleaves with the same seed.
	interleaveSeed uint64
}

// New constructs a Seeder.
func New(q QueuePusher, cfg *config.Config, logger log.Logger, progress Progress) *Seeder {
	return &Seeder{q: q, cfg: cfg, logger: logger, progress: progress, interleaveSeed: resolveSeed(cfg.InterleaveSeed)}
}

// resolveSeed honors an explicit non-zero InterleaveSeed; otherwise it
// draws one from crypto/rand so repeated unconfigured runs don't all
// reorder chunks identically.
func resolveSeed(configured int64) uint64 {
	if configured != 0 {
		return uint64(configured)
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 1
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// Run executes one full seeding pass: reset, read+chunk+interleave+push,
// set completion marker. Any queue-server error aborts immediately,
// leaving partial progress in place — the recovery path is simply to
// re-run, since Run always resets the queue first.
func (s *Seeder) Run(ctx context.Context) (int, error) {
	f, err := os.Open(s.cfg.CSVFile)
	if err != nil {
		return 0, crawlerrors.New(crawlerrors.KindSeed, "opening input file failed", err)
	}
	defer f.Close()

	if err := s.q.Reset(ctx, s.cfg.TaskList, config.CompletionFlagKey); err != nil {
		return 0, err
	}

	total := 0
	chunk := make([]queue.Entry, 0, s.cfg.ChunkSize)

	for entry, err := range readEntries(f, s.cfg.TestLimit) {
		if err != nil {
			return total, crawlerrors.New(crawlerrors.KindSeed, "reading input failed", err)
		}

		chunk = append(chunk, entry)
		if len(chunk) >= s.cfg.ChunkSize {
			if err := s.pushChunk(ctx, chunk); err != nil {
				return total, err
			}
			total += len(chunk)
			s.progress.EnqueueProgress(total)
			chunk = chunk[:0]
		}
	}

	if len(chunk) > 0 {
		if err := s.pushChunk(ctx, chunk); err != nil {
			return total, err
		}
		total += len(chunk)
		s.progress.EnqueueProgress(total)
	}

	if err := s.q.SetFlag(ctx, config.CompletionFlagKey); err != nil {
		return total, err
	}
	s.progress.EnqueueComplete(total)
	return total, nil
}

// pushChunk interleaves one chunk and pushes it in PIPELINE_BATCH-sized
// sub-batches, each one atomic at the queue-client level.
func (s *Seeder) pushChunk(ctx context.Context, chunk []queue.Entry) error {
	interleaved := interleave.Interleave(chunk, s.cfg.HostTakePerRound, s.interleaveSeed)

	for start := 0; start < len(interleaved); start += s.cfg.PipelineBatch {
		end := start + s.cfg.PipelineBatch
		if end > len(interleaved) {
			end = len(interleaved)
		}

		items := make([]string, end-start)
		for i, e := range interleaved[start:end] {
			items[i] = queue.Encode(e)
		}
		if err := s.q.PushMany(ctx, s.cfg.TaskList, items); err != nil {
			return err
		}
	}
	return nil
}

// readEntries yields one Entry per CSV data row (the header is
// skipped), stopping early once limit rows have been read (limit <= 0
// means unbounded). Each row is either a single URL column or two
// columns where the URL is the second; the zero-based post-header row
// index becomes base_id.
func readEntries(r io.Reader, limit int) func(yield func(queue.Entry, error) bool) {
	return func(yield func(queue.Entry, error) bool) {
		cr := csv.NewReader(bufio.NewReader(r))
		cr.FieldsPerRecord = -1

		if _, err := cr.Read(); err != nil {
			if err != io.EOF {
				yield(queue.Entry{}, err)
			}
			return
		}

		id := 0
		for {
			if limit > 0 && id >= limit {
				return
			}
			record, err := cr.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(queue.Entry{}, err)
				return
			}

			url := rowURL(record)
			if url == "" {
				id++
				continue
			}
			if !yield(queue.Entry{BaseID: int64(id), Attempt: 1, URL: url}, nil) {
				return
			}
			id++
		}
	}
}

func rowURL(record []string) string {
	if len(record) == 0 {
		return ""
	}
	if len(record) == 1 {
		return strings.TrimSpace(record[0])
	}
	return strings.TrimSpace(record[1])
}
