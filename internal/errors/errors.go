// internal/errors/errors.go
//
// Package errors defines reusable error types for the crawler.
// Using structured errors allows callers to inspect and react to
// specific failure modes, such as configuration issues, queue
// failures, or store failures.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind represents a high-level category of error.
//
// Grouping errors by Kind makes it easier for callers to implement
// policies such as "abort on config errors, but swallow store errors".
type Kind string

const (
	// KindUnknown represents an unspecified error category.
	KindUnknown Kind = "unknown"

	// KindConfig indicates a configuration-related error.
	KindConfig Kind = "config"

	// KindFetch indicates a network/transport-level fetch failure
	// (DNS, TLS, connection reset, timeout, malformed response).
	KindFetch Kind = "fetch"

	// KindQueue indicates a queue-server error (push, pop, flag, length).
	KindQueue Kind = "queue"

	// KindStore indicates a document-store error (insert, connect).
	KindStore Kind = "store"

	// KindDecode indicates a malformed queue entry that could not be
	// decoded into (base_id, attempt, url).
	KindDecode Kind = "decode"

	// KindSeed indicates a fatal error in the master seeder (aborts the run).
	KindSeed Kind = "seed"
)

// Error is the crawler's structured error type.
//
// It wraps a human-readable message and a Kind identifier so that callers
// can distinguish between different failure classes programmatically.
type Error struct {
	Kind Kind   // high-level category of the error
	Msg  string // descriptive message
	Err  error  // underlying error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap returns the underlying error, enabling errors.Is/As usage.
func (e *Error) Unwrap() error {
	return e.Err
}

// Quiet reports whether errors of this Kind are expected, per-task
// noise rather than something an operator needs to see at normal
// verbosity: fetch/queue/decode failures happen continuously in normal
// operation (a flaky host, a dropped connection, a malformed row) and
// are already accounted for by the retry classifier or simply dropped,
// so they only need to surface in debug logging. Config and seed
// errors are the ones that actually abort a run and always warrant a
// warning or worse.
func (k Kind) Quiet() bool {
	switch k {
	case KindFetch, KindQueue, KindDecode:
		return true
	default:
		return false
	}
}

// Log reports err at Debug level if it classifies as Quiet, or at Warn
// level otherwise. Call sites that currently pick a log level by hand
// for a *Error should use this instead so the Kind taxonomy actually
// drives behavior rather than existing only for Error()'s message
// prefix.
func Log(logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}, msg string, err error) {
	var ce *Error
	if stderrors.As(err, &ce) && ce.Kind.Quiet() {
		logger.Debugf("%s: %v", msg, err)
		return
	}
	logger.Warnf("%s: %v", msg, err)
}

// New creates a new Error with the provided kind and message.
//
// The underlying error may be nil if there is no nested error.
func New(kind Kind, msg string, underlying error) *Error {
	return &Error{
		Kind: kind,
		Msg:  msg,
		Err:  underlying,
	}
}
