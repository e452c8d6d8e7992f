// Package status renders command termination records: a normal exit code
// or the number of the signal that killed the process.
package status

import (
	"fmt"
	"io"
	"syscall"
)

// Status is the termination record of a single process.
type Status struct {
	// Code is the exit code when the process exited normally.
	Code int
	// Signal is the terminating signal number, or zero if the process
	// exited normally.
	Signal int
	// signaled distinguishes "killed by signal 0" from "exited".
	signaled bool
}

// Exited builds a Status for a process that exited normally.
func Exited(code int) Status {
	return Status{Code: code}
}

// Signaled builds a Status for a process killed by a signal.
func Signaled(sig int) Status {
	return Status{Signal: sig, signaled: true}
}

// FromWaitStatus converts a raw wait status into a Status.
func FromWaitStatus(ws syscall.WaitStatus) Status {
	if ws.Signaled() {
		return Signaled(int(ws.Signal()))
	}
	return Exited(ws.ExitStatus())
}

// Signaled reports whether the process was killed by a signal.
func (s Status) Signaled() bool {
	return s.signaled
}

// Reporter renders termination records and remembers the most recent
// foreground one for the status builtin.
type Reporter struct {
	// SuppressSignal is a signal number whose termination report is
	// skipped entirely. Zero disables suppression.
	SuppressSignal int

	last Status
}

// SetLast records the termination of the most recent foreground command.
func (r *Reporter) SetLast(s Status) {
	r.last = s
}

// Last returns the most recent foreground termination record.
func (r *Reporter) Last() Status {
	return r.last
}

// Report writes the rendering of s to w.
func (r *Reporter) Report(w io.Writer, s Status) {
	if !s.signaled {
		fmt.Fprintf(w, "Exit Status: %d\n", s.Code)
		return
	}
	if r.SuppressSignal != 0 && s.Signal == r.SuppressSignal {
		return
	}
	fmt.Fprintf(w, "Terminating Signal: %d\n", s.Signal)
}

// ReportLast writes the rendering of the last foreground record to w.
func (r *Reporter) ReportLast(w io.Writer) {
	r.Report(w, r.last)
}

// String renders the record on a single line for logs.
func (s Status) String() string {
	if s.signaled {
		return fmt.Sprintf("signal %d", s.Signal)
	}
	return fmt.Sprintf("exit %d", s.Code)
}
