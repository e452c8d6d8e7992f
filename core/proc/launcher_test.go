package proc

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephlewis42/smallsh/core/jobs"
	"github.com/josephlewis42/smallsh/core/logger"
	"github.com/josephlewis42/smallsh/core/status"
)

type launcherHarness struct {
	*Launcher

	out      bytes.Buffer
	errOut   bytes.Buffer
	childOut bytes.Buffer
	exitCode int
}

func newLauncherHarness() *launcherHarness {
	h := &launcherHarness{exitCode: -1}
	h.Launcher = &Launcher{
		Stdout:      &h.out,
		Stderr:      &h.errOut,
		ChildStdin:  strings.NewReader(""),
		ChildStdout: &h.childOut,
		ChildStderr: &h.errOut,
		Reporter:    &status.Reporter{SuppressSignal: 123},
		Jobs:        &jobs.Table{},
		Watch:       &Watch{},
		Log:         logger.NewNopLogger().NewSession(),
		Exit:        func(code int) { h.exitCode = code },
	}
	return h
}

func TestRunForeground(t *testing.T) {
	h := newLauncherHarness()

	h.Run([]string{"true"}, "", "", false)
	assert.Equal(t, status.Exited(0), h.Reporter.Last())

	h.Run([]string{"false"}, "", "", false)
	assert.Equal(t, status.Exited(1), h.Reporter.Last())

	// Exit-coded commands are not reported automatically.
	assert.Empty(t, h.out.String())
}

func TestRunForegroundSignaled(t *testing.T) {
	h := newLauncherHarness()

	h.Run([]string{"sh", "-c", "kill -TERM $$"}, "", "", false)

	assert.Equal(t, status.Signaled(15), h.Reporter.Last())
	assert.Equal(t, "Terminating Signal: 15\n", h.out.String(),
		"signal terminations are rendered immediately")
}

func TestRunNotFound(t *testing.T) {
	h := newLauncherHarness()

	h.Run([]string{"definitely-not-a-command-xyz"}, "", "", true)

	assert.Contains(t, h.errOut.String(), "command not found")
	assert.Equal(t, status.Exited(1), h.Reporter.Last())
	assert.Equal(t, 0, h.Jobs.Len(), "no job is tracked for a failed launch")
	assert.Equal(t, -1, h.exitCode, "the shell itself keeps running")
}

func TestRunBackground(t *testing.T) {
	h := newLauncherHarness()

	h.Run([]string{"sh", "-c", "exit 0"}, "", "", true)

	require.Equal(t, 1, h.Jobs.Len())
	assert.Contains(t, h.out.String(), "PID of new background process: ")

	var reaped []status.Status
	assert.Eventually(t, func() bool {
		h.Jobs.ReapAll(func(pid int, st status.Status) {
			reaped = append(reaped, st)
		})
		return len(reaped) == 1
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, status.Exited(0), reaped[0])
	assert.Equal(t, 0, h.Jobs.Len())
}

func TestRunRedirection(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.txt")
	outPath := filepath.Join(dir, "out.txt")
	require.Nil(t, ioutil.WriteFile(inPath, []byte("redirected input\n"), 0600))

	h := newLauncherHarness()
	h.Run([]string{"cat"}, inPath, outPath, false)

	assert.Equal(t, status.Exited(0), h.Reporter.Last())
	got, err := ioutil.ReadFile(outPath)
	require.Nil(t, err)
	assert.Equal(t, "redirected input\n", string(got))
}

func TestRunRedirectionTruncates(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.txt")
	require.Nil(t, ioutil.WriteFile(outPath, []byte("stale contents that are longer\n"), 0600))

	h := newLauncherHarness()
	h.Run([]string{"echo", "fresh"}, "", outPath, false)

	got, err := ioutil.ReadFile(outPath)
	require.Nil(t, err)
	assert.Equal(t, "fresh\n", string(got))
}

func TestRunMissingInput(t *testing.T) {
	h := newLauncherHarness()

	h.Run([]string{"cat"}, filepath.Join(t.TempDir(), "nope.txt"), "", false)

	assert.Contains(t, h.errOut.String(), "cannot open")
	assert.Equal(t, status.Exited(1), h.Reporter.Last())
}

func TestRunArgvPassing(t *testing.T) {
	h := newLauncherHarness()

	h.Run([]string{"echo", "hi4821"}, "", "", false)

	assert.Equal(t, "hi4821\n", h.childOut.String())
	assert.Equal(t, status.Exited(0), h.Reporter.Last())
}

func TestWatchDuringForeground(t *testing.T) {
	h := newLauncherHarness()

	observed := make(chan bool, 1)
	go func() {
		// Poll until the foreground wait is visible.
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if _, _, ok := h.Watch.Current(); ok {
				observed <- true
				return
			}
			time.Sleep(time.Millisecond)
		}
		observed <- false
	}()

	h.Run([]string{"sleep", "0.2"}, "", "", false)

	assert.True(t, <-observed, "watch registry exposes the foreground wait")
	_, _, ok := h.Watch.Current()
	assert.False(t, ok, "watch cleared after the wait")
}

func TestStdioFallsBackToShell(t *testing.T) {
	h := newLauncherHarness()
	h.ChildStdin = strings.NewReader("from the shell\n")

	h.Run([]string{"cat"}, "", "", false)

	assert.Equal(t, "from the shell\n", h.childOut.String())
}
