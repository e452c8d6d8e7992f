package shell

import (
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/josephlewis42/smallsh/core/logger"
	"github.com/josephlewis42/smallsh/core/proc"
)

// Mode-toggle notifications are fixed byte literals written straight to
// the terminal so they interleave cleanly with the prompt.
var (
	msgEnterForegroundOnly = []byte("\nEntering foreground only mode. (& is now ignored)\n")
	msgExitForegroundOnly  = []byte("\nExiting foreground only mode.\n")
)

// ModeController flips the shell between Normal and ForegroundOnly on
// each delivery of the terminal-stop signal (Ctrl-Z). While
// ForegroundOnly is active every background request runs in the
// foreground instead; the parsed flag itself is never mutated.
type ModeController struct {
	watch  *proc.Watch
	out    io.Writer
	prompt []byte
	log    *logger.SessionLogger

	// foregroundOnly is read by the main loop and written by the signal
	// goroutine; 0 is Normal.
	foregroundOnly int32

	sigs chan os.Signal
}

// NewModeController wires the controller to the foreground watch
// registry and the terminal.
func NewModeController(watch *proc.Watch, out io.Writer, prompt string, log *logger.SessionLogger) *ModeController {
	return &ModeController{
		watch:  watch,
		out:    out,
		prompt: []byte(prompt),
		log:    log,
	}
}

// ForegroundOnly reports whether background requests are currently
// overridden to run in the foreground.
func (c *ModeController) ForegroundOnly() bool {
	return atomic.LoadInt32(&c.foregroundOnly) != 0
}

// Start subscribes to SIGTSTP and SIGINT. SIGTSTP toggles the mode;
// SIGINT is swallowed so the shell survives Ctrl-C while the foreground
// child, which shares the terminal's process group, takes it directly.
// The returned function unsubscribes and drains the goroutine.
func (c *ModeController) Start() (stop func()) {
	c.sigs = make(chan os.Signal, 1)
	signal.Notify(c.sigs, syscall.SIGTSTP, syscall.SIGINT)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for sig := range c.sigs {
			if sig != syscall.SIGTSTP {
				continue
			}
			c.toggle()
		}
	}()

	return func() {
		signal.Stop(c.sigs)
		close(c.sigs)
		<-done
	}
}

// toggle performs one mode transition. If a foreground wait is in
// progress it finishes first: the terminal stop also suspended the
// same-group child, so the child is resumed and the toggle blocks until
// the main loop's wait completes.
func (c *ModeController) toggle() {
	pid, fgDone, waiting := c.watch.Current()
	if waiting {
		// The child may already have exited; delivery errors are fine.
		_ = unix.Kill(pid, unix.SIGCONT)
		<-fgDone
	}

	entering := atomic.LoadInt32(&c.foregroundOnly) == 0
	if entering {
		atomic.StoreInt32(&c.foregroundOnly, 1)
		c.out.Write(msgEnterForegroundOnly)
	} else {
		atomic.StoreInt32(&c.foregroundOnly, 0)
		c.out.Write(msgExitForegroundOnly)
	}
	if !waiting {
		// The toggle interrupted an idle prompt; repaint it.
		c.out.Write(c.prompt)
	}

	c.log.LogModeToggle(entering)
}
