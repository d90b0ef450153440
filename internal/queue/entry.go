// internal/queue/entry.go
//
// The wire format for one queue element is plain ASCII text:
// "<base_id>#<attempt> <url>". The legacy form "<base_id> <url>" (no
// "#") is accepted indefinitely and implies attempt 1 — old producers
// and in-flight entries from before the attempt counter existed must
// keep decoding correctly.
package queue

import (
	"strconv"
	"strings"

	"github.com/leih66181-lang/aio-crawler/internal/errors"
)

// Entry is one task as it travels through the queue.
type Entry struct {
	BaseID  int64
	Attempt int
	URL     string
}

// Encode renders e as the wire format described above.
func Encode(e Entry) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(e.BaseID, 10))
	b.WriteByte('#')
	b.WriteString(strconv.Itoa(e.Attempt))
	b.WriteByte(' ')
	b.WriteString(e.URL)
	return b.String()
}

// Decode parses raw as a queue entry. Malformed input (no space, a
// non-numeric head) is reported as an error so the caller can drop the
// entry and decrement in-flight, per the decode-error handling design.
func Decode(raw string) (Entry, error) {
	head, url, found := strings.Cut(raw, " ")
	if !found {
		return Entry{}, errors.New(errors.KindDecode, "missing head/url separator", nil)
	}
	if url == "" {
		return Entry{}, errors.New(errors.KindDecode, "empty url", nil)
	}

	idPart, attemptPart, hasAttempt := strings.Cut(head, "#")

	baseID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || baseID < 0 {
		return Entry{}, errors.New(errors.KindDecode, "invalid base_id", err)
	}

	attempt := 1
	if hasAttempt {
		attempt, err = strconv.Atoi(attemptPart)
		if err != nil || attempt < 1 {
			return Entry{}, errors.New(errors.KindDecode, "invalid attempt", err)
		}
	}

	return Entry{BaseID: baseID, Attempt: attempt, URL: url}, nil
}
