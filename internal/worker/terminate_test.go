package worker

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leih66181-lang/aio-crawler/internal/config"
	"github.com/leih66181-lang/aio-crawler/internal/progress"
)

// fakeFlagQueue is a hand-written FlagQueue: each test sets flagSet and
// length directly, either leaving the flag unset so the controller's
// stop condition never fires, or setting it with an empty queue so it
// fires on the first poll.
type fakeFlagQueue struct {
	flagSet bool
	length  int64
}

func (f *fakeFlagQueue) GetFlag(ctx context.Context, key string) (bool, error) {
	return f.flagSet, nil
}

func (f *fakeFlagQueue) Length(ctx context.Context, key string) (int64, error) {
	return f.length, nil
}

func waitForLine(t *testing.T, buf *bytes.Buffer, prefix string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), prefix) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in output: %q", prefix, buf.String())
}

// TestSupervise_ConsumeReadyFiresOnFirstConsumeNotOnFlag proves
// CONSUME_READY/PERSIST_READY are driven by Stats.FirstConsume, not by
// the completion flag: the flag is never set here, yet both lines
// still appear once FirstConsume is recorded.
func TestSupervise_ConsumeReadyFiresOnFirstConsumeNotOnFlag(t *testing.T) {
	var buf bytes.Buffer
	printer := progress.New(&buf)
	cfg := config.Default()
	stats := &Stats{}
	q := &fakeFlagQueue{flagSet: false}

	pool := NewPool(nil, q, cfg, stats, printer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pool.supervise(ctx)

	stats.FirstConsume.Store(true)

	waitForLine(t, &buf, "CONSUME_READY")
	waitForLine(t, &buf, "PERSIST_READY")
	assert.NotContains(t, buf.String(), "WORKERS_STOPPED", "the flag was never set, so the controller must not think the run is done")
}

// TestSupervise_ConsumeReadyDoesNotFireWithoutFirstConsume confirms the
// flag being set alone is no longer sufficient to print the milestones.
func TestSupervise_ConsumeReadyDoesNotFireWithoutFirstConsume(t *testing.T) {
	var buf bytes.Buffer
	printer := progress.New(&buf)
	cfg := config.Default()
	stats := &Stats{}
	q := &fakeFlagQueue{flagSet: true, length: 0}

	pool := NewPool(nil, q, cfg, stats, printer)

	ctx, cancel := context.WithCancel(context.Background())
	go pool.supervise(ctx)

	select {
	case <-pool.stop:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stop condition (flag set, queue empty, nothing in flight)")
	}
	cancel()

	assert.NotContains(t, buf.String(), "CONSUME_READY", "no Loop ever recorded a consume, so the milestone must not print")
	require.NotContains(t, buf.String(), "PERSIST_READY")
}
