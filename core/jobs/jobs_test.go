package jobs

import (
	"testing"
	"time"

	"github.com/josephlewis42/smallsh/core/status"
	"github.com/stretchr/testify/assert"
)

// fakeJob tracks a job whose termination the test controls.
func fakeJob(pid int, st status.Status) (*Job, func()) {
	release := make(chan struct{})
	j := Track(pid,
		func() status.Status {
			<-release
			return st
		},
		func() error {
			close(release)
			return nil
		})
	return j, func() { close(release) }
}

func waitDone(t *testing.T, j *Job) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !j.Done() {
		select {
		case <-deadline:
			t.Fatal("job never finished")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestReapAll(t *testing.T) {
	var table Table

	j1, finish1 := fakeJob(101, status.Exited(0))
	j2, _ := fakeJob(102, status.Exited(1))
	j3, finish3 := fakeJob(103, status.Signaled(15))
	table.Add(j1)
	table.Add(j2)
	table.Add(j3)

	var reaped []int
	report := func(pid int, st status.Status) { reaped = append(reaped, pid) }

	table.ReapAll(report)
	assert.Empty(t, reaped, "nothing finished yet")
	assert.Equal(t, 3, table.Len())

	finish1()
	finish3()
	waitDone(t, j1)
	waitDone(t, j3)

	table.ReapAll(report)
	assert.Equal(t, []int{101, 103}, reaped, "finished jobs reported in table order")
	assert.Equal(t, 1, table.Len(), "running job survives, order preserved")

	// A reaped job is never reported twice.
	reaped = nil
	table.ReapAll(report)
	assert.Empty(t, reaped)
}

func TestReapAllStatus(t *testing.T) {
	var table Table
	j, finish := fakeJob(7, status.Signaled(9))
	table.Add(j)
	finish()
	waitDone(t, j)

	var got status.Status
	table.ReapAll(func(pid int, st status.Status) { got = st })
	assert.Equal(t, status.Signaled(9), got)
}

func TestTerminateAll(t *testing.T) {
	var table Table

	// Terminate releases the waiters, standing in for SIGTERM delivery.
	j1, _ := fakeJob(201, status.Signaled(15))
	j2, _ := fakeJob(202, status.Signaled(15))
	table.Add(j1)
	table.Add(j2)

	done := make(chan struct{})
	go func() {
		table.TerminateAll()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("TerminateAll never returned")
	}
	assert.Equal(t, 0, table.Len())
}
