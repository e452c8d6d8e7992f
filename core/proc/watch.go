package proc

import "sync"

// Watch tracks the process currently being waited on in the foreground.
// The launcher sets and clears it around the blocking wait; the
// foreground-only controller reads it to decide whether a wait is in
// progress and to block until it finishes.
type Watch struct {
	mu   sync.Mutex
	pid  int
	done chan struct{}
}

// Set marks pid as the foreground process being awaited.
func (w *Watch) Set(pid int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pid = pid
	w.done = make(chan struct{})
}

// Clear marks the foreground wait as finished.
func (w *Watch) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil {
		close(w.done)
		w.done = nil
	}
	w.pid = 0
}

// Current returns the watched pid and a channel closed when the wait
// finishes. ok is false when no foreground wait is in progress.
func (w *Watch) Current() (pid int, done <-chan struct{}, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done == nil {
		return 0, nil, false
	}
	return w.pid, w.done, true
}
