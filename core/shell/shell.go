// Package shell implements the interactive prompt loop: reading lines,
// parsing them, dispatching builtins, and handing external commands to
// the process launcher.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/josephlewis42/smallsh/core/config"
	"github.com/josephlewis42/smallsh/core/jobs"
	"github.com/josephlewis42/smallsh/core/logger"
	"github.com/josephlewis42/smallsh/core/proc"
	"github.com/josephlewis42/smallsh/core/status"
)

var colorBoldRed = color.New(color.FgRed, color.Bold)

// Shell is one interactive session.
type Shell struct {
	config   *config.Configuration
	reader   *LineReader
	stdout   io.Writer
	stderr   io.Writer
	reporter *status.Reporter
	table    *jobs.Table
	launcher *proc.Launcher
	mode     *ModeController
	log      *logger.SessionLogger

	pid  int
	quit bool
}

// New assembles a Shell around the given standard streams.
func New(cfg *config.Configuration, stdin io.Reader, stdout, stderr io.Writer, log *logger.SessionLogger) *Shell {
	reporter := &status.Reporter{SuppressSignal: cfg.SuppressSignal}
	table := &jobs.Table{}
	watch := &proc.Watch{}

	s := &Shell{
		config:   cfg,
		reader:   NewLineReader(stdin, stdout, cfg.Prompt, cfg.MaxLineBytes),
		stdout:   stdout,
		stderr:   stderr,
		reporter: reporter,
		table:    table,
		mode:     NewModeController(watch, stdout, cfg.Prompt, log),
		log:      log,
		pid:      os.Getpid(),
	}
	s.launcher = &proc.Launcher{
		Stdout:      stdout,
		Stderr:      stderr,
		ChildStdin:  stdin,
		ChildStdout: stdout,
		ChildStderr: stderr,
		Reporter:    reporter,
		Jobs:        table,
		Watch:       watch,
		Log:         log,
	}
	return s
}

// Run drives the prompt loop until exit or end of input. Each iteration
// reaps finished background jobs before reading the next command, so
// reap reports always land between the previous command and the next
// prompt.
func (s *Shell) Run() error {
	stop := s.mode.Start()
	defer stop()

	s.log.LogSessionStart(s.pid)

	for !s.quit {
		s.reapJobs()

		line, err := s.reader.ReadLine()
		switch {
		case err == io.EOF:
			// Input closed; wind down tracked jobs as exit does.
			s.table.TerminateAll()
			return nil
		case errors.Is(err, ErrLineTooLong):
			// Malformed input; the reader already drained the line.
			colorBoldRed.Fprintf(s.stderr, "smallsh: %v\n", err)
			continue
		case err != nil:
			s.table.TerminateAll()
			return err
		}

		s.Execute(line)
	}
	return nil
}

func (s *Shell) reapJobs() {
	s.table.ReapAll(func(pid int, st status.Status) {
		fmt.Fprintf(s.stdout, "%d has been reaped.\n", pid)
		s.reporter.Report(s.stdout, st)
		s.log.LogJobReaped(pid, st.String())
	})
}

// Execute parses and dispatches a single command line.
func (s *Shell) Execute(line string) {
	cmd, err := Parse(line, s.pid, Limits{MaxArgs: s.config.MaxArgs})
	if err != nil {
		colorBoldRed.Fprintf(s.stderr, "smallsh: %v\n", err)
		return
	}
	if cmd == nil {
		return
	}

	if builtin, ok := AllBuiltins[cmd.Argv[0]]; ok {
		s.log.LogCommandRun(cmd.Argv, false, true)
		builtin.Main(s, cmd.Argv)
		return
	}

	// ForegroundOnly overrides the request at dispatch; the parsed flag
	// stays untouched.
	background := cmd.Background && !s.mode.ForegroundOnly()
	s.log.LogCommandRun(cmd.Argv, background, false)
	s.launcher.Run(cmd.Argv, cmd.InputPath, cmd.OutputPath, background)
}
