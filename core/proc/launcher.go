// Package proc launches external commands, rebinding their standard
// streams and either blocking on them in the foreground or handing them
// to the job table.
package proc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/josephlewis42/smallsh/core/jobs"
	"github.com/josephlewis42/smallsh/core/logger"
	"github.com/josephlewis42/smallsh/core/status"
)

// Launcher runs external commands on behalf of the shell.
type Launcher struct {
	// Stdout and Stderr receive the shell's own reports and diagnostics.
	Stdout io.Writer
	Stderr io.Writer

	// ChildStdin, ChildStdout and ChildStderr are the streams children
	// inherit when no redirection applies. In production these are the
	// terminal's descriptors.
	ChildStdin  io.Reader
	ChildStdout io.Writer
	ChildStderr io.Writer

	Reporter *status.Reporter
	Jobs     *jobs.Table
	Watch    *Watch
	Log      *logger.SessionLogger

	// Exit replaces os.Exit in tests.
	Exit func(code int)
}

// Run resolves argv[0] on the PATH and executes it. A foreground command
// blocks until it terminates and records its status; a background
// command is reported and handed to the job table. Failures to resolve
// the program or open a redirection target are reported and recorded as
// an exit status of 1 without disturbing the shell.
func (l *Launcher) Run(argv []string, inputPath, outputPath string, background bool) {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		fmt.Fprintf(l.Stderr, "%s: command not found\n", argv[0])
		l.Reporter.SetLast(status.Exited(1))
		l.Log.LogExecFailure(argv[0], err)
		return
	}

	files, err := openStdio(inputPath, outputPath, background)
	if err != nil {
		fmt.Fprintf(l.Stderr, "%s: %v\n", argv[0], err)
		l.Reporter.SetLast(status.Exited(1))
		l.Log.LogExecFailure(argv[0], err)
		return
	}

	cmd := exec.Command(path)
	cmd.Args = argv

	if files.in != nil {
		cmd.Stdin = files.in
	} else {
		cmd.Stdin = l.ChildStdin
	}
	if files.out != nil {
		cmd.Stdout = files.out
	} else {
		cmd.Stdout = l.ChildStdout
	}
	cmd.Stderr = l.ChildStderr

	if background {
		// Background children run in their own process group so
		// terminal-generated SIGINT and SIGTSTP never reach them.
		// Foreground children stay in the shell's group and take
		// terminal SIGINT directly.
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	}

	err = cmd.Start()
	files.Close()
	if err != nil {
		if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.ENOMEM) {
			// No process was created; the shell cannot safely continue.
			fmt.Fprintf(l.Stderr, "smallsh: cannot create process: %v\n", err)
			l.exit(2)
			return
		}
		fmt.Fprintf(l.Stderr, "%s: %v\n", argv[0], err)
		l.Reporter.SetLast(status.Exited(1))
		l.Log.LogExecFailure(argv[0], err)
		return
	}

	pid := cmd.Process.Pid
	if background {
		fmt.Fprintf(l.Stdout, "PID of new background process: %d\n", pid)
		l.Jobs.Add(jobs.Track(pid,
			func() status.Status { return waitStatus(cmd) },
			func() error { return unix.Kill(pid, unix.SIGTERM) }))
		l.Log.LogJobStarted(pid)
		return
	}

	l.Watch.Set(pid)
	st := waitStatus(cmd)
	l.Watch.Clear()

	l.Reporter.SetLast(st)
	if st.Signaled() {
		// Signal terminations are rendered immediately; normal exits
		// only on demand through the status builtin.
		l.Reporter.Report(l.Stdout, st)
	}
}

func (l *Launcher) exit(code int) {
	if l.Exit != nil {
		l.Exit(code)
		return
	}
	os.Exit(code)
}

// waitStatus blocks until the command terminates and extracts its
// termination record.
func waitStatus(cmd *exec.Cmd) status.Status {
	err := cmd.Wait()
	if cmd.ProcessState != nil {
		if ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus); ok {
			return status.FromWaitStatus(ws)
		}
	}
	if err != nil {
		return status.Exited(1)
	}
	return status.Exited(0)
}
