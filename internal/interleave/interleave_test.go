package interleave

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leih66181-lang/aio-crawler/internal/queue"
)

func entriesFor(host string, n, startID int) []queue.Entry {
	out := make([]queue.Entry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, queue.Entry{
			BaseID:  int64(startID + i),
			Attempt: 1,
			URL:     fmt.Sprintf("http://%s/page/%d", host, i),
		})
	}
	return out
}

func TestInterleave_Permutation(t *testing.T) {
	input := append(entriesFor("a.com", 5, 0), entriesFor("b.com", 12, 5)...)
	input = append(input, entriesFor("c.com", 3, 17)...)

	out := Interleave(input, 1, 42)
	require.Len(t, out, len(input))

	wantIDs := idSet(input)
	gotIDs := idSet(out)
	assert.Equal(t, wantIDs, gotIDs)
}

func TestInterleave_IntraHostOrderPreserved(t *testing.T) {
	input := append(entriesFor("a.com", 5, 0), entriesFor("b.com", 8, 5)...)

	out := Interleave(input, 1, 7)

	assert.Equal(t, subsequenceFor(input, "a.com"), subsequenceFor(out, "a.com"))
	assert.Equal(t, subsequenceFor(input, "b.com"), subsequenceFor(out, "b.com"))
}

func TestInterleave_DeterministicUnderSeed(t *testing.T) {
	input := append(entriesFor("a.com", 5, 0), entriesFor("b.com", 200, 5)...)

	out1 := Interleave(input, 1, 123)
	out2 := Interleave(input, 1, 123)
	assert.Equal(t, out1, out2)
}

func TestInterleave_HostFairnessPrefix(t *testing.T) {
	input := append(entriesFor("a.com", 1, 0), entriesFor("b.com", 1000, 1)...)

	out := Interleave(input, 1, 99)

	prefix := out[:50]
	foundA := false
	for _, e := range prefix {
		if normalizeHost(e.URL) == "a.com" {
			foundA = true
			break
		}
	}
	assert.True(t, foundA, "expected host a.com to appear in the first 50 entries under log weighting")
}

func TestInterleave_EmptyInput(t *testing.T) {
	assert.Nil(t, Interleave(nil, 1, 1))
}

func idSet(entries []queue.Entry) []int64 {
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.BaseID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func subsequenceFor(entries []queue.Entry, host string) []int64 {
	var out []int64
	for _, e := range entries {
		if normalizeHost(e.URL) == host {
			out = append(out, e.BaseID)
		}
	}
	return out
}
