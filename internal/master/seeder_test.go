package master

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leih66181-lang/aio-crawler/internal/config"
	"github.com/leih66181-lang/aio-crawler/internal/log"
	"github.com/leih66181-lang/aio-crawler/internal/progress"
)

type fakeQueue struct {
	resetCalls int
	pushed     [][]string
	flagSet    bool
	resetErr   error
	pushErr    error
}

func (f *fakeQueue) Reset(ctx context.Context, key, flagKey string) error {
	f.resetCalls++
	return f.resetErr
}

func (f *fakeQueue) PushMany(ctx context.Context, key string, items []string) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	cp := append([]string(nil), items...)
	f.pushed = append(f.pushed, cp)
	return nil
}

func (f *fakeQueue) SetFlag(ctx context.Context, key string) error {
	f.flagSet = true
	return nil
}

func writeTempCSV(t *testing.T, contents string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "urls-*.csv")
	require.NoError(t, err)
	_, err = f.WriteString(contents)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestSeeder_Run_PushesAllRowsAndSetsFlag(t *testing.T) {
	path := writeTempCSV(t, "url\nhttp://a.com/1\nhttp://b.com/2\nhttp://a.com/3\n")

	cfg := config.Default()
	cfg.CSVFile = path
	cfg.ChunkSize = 100
	cfg.PipelineBatch = 100

	fq := &fakeQueue{}
	var buf bytes.Buffer
	s := New(fq, cfg, log.New(false), progress.New(&buf))

	total, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, fq.resetCalls)
	assert.True(t, fq.flagSet)

	pushedCount := 0
	for _, batch := range fq.pushed {
		pushedCount += len(batch)
	}
	assert.Equal(t, 3, pushedCount)
}

func TestSeeder_Run_TestLimitCapsRows(t *testing.T) {
	path := writeTempCSV(t, "url\nhttp://a.com/1\nhttp://a.com/2\nhttp://a.com/3\n")

	cfg := config.Default()
	cfg.CSVFile = path
	cfg.ChunkSize = 100
	cfg.PipelineBatch = 100
	cfg.TestLimit = 2

	fq := &fakeQueue{}
	var buf bytes.Buffer
	s := New(fq, cfg, log.New(false), progress.New(&buf))

	total, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestSeeder_Run_TwoColumnRowsUseSecondColumn(t *testing.T) {
	path := writeTempCSV(t, "id,url\n1,http://a.com/1\n2,http://b.com/2\n")

	cfg := config.Default()
	cfg.CSVFile = path
	cfg.ChunkSize = 100
	cfg.PipelineBatch = 100

	fq := &fakeQueue{}
	var buf bytes.Buffer
	s := New(fq, cfg, log.New(false), progress.New(&buf))

	total, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	var pushed []string
	for _, batch := range fq.pushed {
		pushed = append(pushed, batch...)
	}
	assert.ElementsMatch(t, []string{"0#1 http://a.com/1", "1#1 http://b.com/2"}, pushed)
}

func TestSeeder_Run_AbortsOnQueueError(t *testing.T) {
	path := writeTempCSV(t, "url\nhttp://a.com/1\n")

	cfg := config.Default()
	fq := &fakeQueue{pushErr: assertError("boom")}
	var buf bytes.Buffer
	s := New(fq, cfg, log.New(false), progress.New(&buf))
	cfg.CSVFile = path

	_, err := s.Run(context.Background())
	assert.Error(t, err)
	assert.False(t, fq.flagSet)
}

type assertError string

func (e assertError) Error() string { return string(e) }
