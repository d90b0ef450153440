// internal/progress/progress.go
//
// Package progress prints the plain-text milestone lines external
// tooling greps for. The exact prefixes and their wording are the
// observable contract, not an implementation detail, so nothing here
// should be reworded without checking who else depends on the text.
package progress

import (
	"fmt"
	"io"
)

// Printer writes milestone lines to an underlying writer, normally
// os.Stdout. Logging (internal/log) is separate: structured log events
// go to stderr for operators, these plain lines go to stdout for
// anything that parses crawler output.
type Printer struct {
	w io.Writer
}

// New constructs a Printer over w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) EnqueueProgress(pushed int) {
	fmt.Fprintf(p.w, "ENQUEUE_PROGRESS %d\n", pushed)
}

func (p *Printer) EnqueueComplete(total int) {
	fmt.Fprintf(p.w, "ENQUEUE_COMPLETE %d\n", total)
}

func (p *Printer) RunStatus(msg string) {
	fmt.Fprintf(p.w, "RUN_STATUS %s\n", msg)
}

func (p *Printer) WorkersReady(n int) {
	fmt.Fprintf(p.w, "WORKERS_READY %d\n", n)
}

func (p *Printer) ConsumeReady() {
	fmt.Fprintln(p.w, "CONSUME_READY")
}

func (p *Printer) PersistReady() {
	fmt.Fprintln(p.w, "PERSIST_READY")
}

// ProgressK reports the attempts count in thousands, e.g. PROGRESS_12K
// for 12000 attempts. It is called at PRINT_EVERY boundaries.
func (p *Printer) ProgressK(attempts int) {
	fmt.Fprintf(p.w, "PROGRESS_%dK\n", attempts/1000)
}

func (p *Printer) WorkersStopped(ok, fail int) {
	fmt.Fprintf(p.w, "WORKERS_STOPPED ok=%d fail=%d\n", ok, fail)
}
