package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func statusPtr(s int) *int { return &s }

func TestClassify_Totality(t *testing.T) {
	for s := 100; s <= 599; s++ {
		d := Classify(false, statusPtr(s), 1, 5)
		assert.Containsf(t, []Decision{Retry, TerminalFail}, d, "status %d", s)
	}
	assert.Contains(t, []Decision{Retry, TerminalFail}, Classify(false, nil, 1, 5))
}

func TestClassify_NullStatusRetries(t *testing.T) {
	assert.Equal(t, Retry, Classify(false, nil, 1, 5))
}

func TestClassify_TerminalStatuses(t *testing.T) {
	for _, s := range []int{400, 401, 403, 404, 410, 451} {
		assert.Equal(t, TerminalFail, Classify(false, statusPtr(s), 1, 5), "status %d", s)
	}
}

func TestClassify_RetryableStatuses(t *testing.T) {
	retryable := []int{408, 425, 429, 500, 501, 502, 503, 504, 521, 522, 526}
	for _, s := range retryable {
		assert.Equal(t, Retry, Classify(false, statusPtr(s), 1, 5), "status %d", s)
	}
}

func TestClassify_UnlistedStatusIsTerminal(t *testing.T) {
	for _, s := range []int{100, 200, 301, 418, 505, 599} {
		assert.Equal(t, TerminalFail, Classify(false, statusPtr(s), 1, 5), "status %d", s)
	}
}

func TestClassify_Success(t *testing.T) {
	assert.Equal(t, Success, Classify(true, statusPtr(200), 1, 5))
}

func TestClassify_RetryBoundBecomesTerminal(t *testing.T) {
	assert.Equal(t, Retry, Classify(false, statusPtr(503), 4, 5))
	assert.Equal(t, TerminalFail, Classify(false, statusPtr(503), 5, 5))
	assert.Equal(t, TerminalFail, Classify(false, nil, 5, 5))
}
