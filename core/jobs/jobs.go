// Package jobs tracks outstanding background processes and collects
// their termination statuses without blocking the shell.
package jobs

import (
	"github.com/josephlewis42/smallsh/core/status"
)

// Job is a single tracked background process.
//
// The wait callback runs on its own goroutine and publishes the
// termination status before closing done; readers must observe done
// before touching status.
type Job struct {
	PID int

	terminate func() error
	status    status.Status
	done      chan struct{}
}

// Track starts waiting on a background process. The wait callback must
// block until the process terminates and return its status; terminate
// must deliver a termination signal to it.
func Track(pid int, wait func() status.Status, terminate func() error) *Job {
	j := &Job{
		PID:       pid,
		terminate: terminate,
		done:      make(chan struct{}),
	}
	go func() {
		j.status = wait()
		close(j.done)
	}()
	return j
}

// Done reports whether the process has terminated.
func (j *Job) Done() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

// Table is an ordered collection of live background jobs. It is owned by
// the shell's main loop and must not be shared across goroutines.
type Table struct {
	jobs []*Job
}

// Len returns the number of live jobs.
func (t *Table) Len() int {
	return len(t.jobs)
}

// Add appends a job to the table.
func (t *Table) Add(j *Job) {
	t.jobs = append(t.jobs, j)
}

// ReapAll visits every tracked job once. Finished jobs are reported and
// removed; the relative order of the remaining jobs is preserved. A job
// finishing during the pass is picked up on the next one.
func (t *Table) ReapAll(report func(pid int, st status.Status)) {
	kept := t.jobs[:0]
	for _, j := range t.jobs {
		if !j.Done() {
			kept = append(kept, j)
			continue
		}
		report(j.PID, j.status)
	}
	for i := len(kept); i < len(t.jobs); i++ {
		t.jobs[i] = nil
	}
	t.jobs = kept
}

// TerminateAll delivers a termination signal to every live job and
// blocks until each has been waited on. The table is empty afterward.
func (t *Table) TerminateAll() {
	for _, j := range t.jobs {
		// The job may already have exited; a delivery error is fine.
		_ = j.terminate()
	}
	for _, j := range t.jobs {
		<-j.done
	}
	t.jobs = nil
}
