// Package logger is a standardized event logging framework for the shell.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// LogEntry is a single recorded shell event. Exactly one of the event
// fields is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	SessionStart *SessionStart `json:"session_start,omitempty"`
	CommandRun   *CommandRun   `json:"command_run,omitempty"`
	JobStarted   *JobStarted   `json:"job_started,omitempty"`
	JobReaped    *JobReaped    `json:"job_reaped,omitempty"`
	ModeToggle   *ModeToggle   `json:"mode_toggle,omitempty"`
	ExecFailure  *ExecFailure  `json:"exec_failure,omitempty"`
}

// SessionStart marks the beginning of an interactive session.
type SessionStart struct {
	ShellPID int `json:"shell_pid"`
}

// CommandRun records a dispatched command line.
type CommandRun struct {
	Argv       []string `json:"argv"`
	Background bool     `json:"background"`
	Builtin    bool     `json:"builtin,omitempty"`
}

// JobStarted records a new background job.
type JobStarted struct {
	PID int `json:"pid"`
}

// JobReaped records the collection of a finished background job.
type JobReaped struct {
	PID    int    `json:"pid"`
	Status string `json:"status"`
}

// ModeToggle records a foreground-only mode transition.
type ModeToggle struct {
	ForegroundOnly bool `json:"foreground_only"`
}

// ExecFailure records a command that could not be launched.
type ExecFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// Logger captures shell events to determine how the shell is being used.
// Events arrive from both the main loop and the signal goroutine, so
// recording is serialized.
type Logger struct {
	mu   sync.Mutex
	sink LogRecorder
}

// NewJSONLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJSONLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		sink: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogger creates a Logger that discards every event.
func NewNopLogger() *Logger {
	return &Logger{
		sink: func(le *LogEntry) error { return nil },
	}
}

// NewSession creates a logger with attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

func (l *Logger) record(sessionID string, set func(le *LogEntry)) error {
	le := &LogEntry{
		TimestampMicros: time.Now().UnixNano() / int64(time.Microsecond),
		SessionID:       sessionID,
	}
	set(le)

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sink(le)
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

func (s *SessionLogger) LogSessionStart(shellPID int) error {
	return s.record(s.sessionID, func(le *LogEntry) {
		le.SessionStart = &SessionStart{ShellPID: shellPID}
	})
}

func (s *SessionLogger) LogCommandRun(argv []string, background, builtin bool) error {
	return s.record(s.sessionID, func(le *LogEntry) {
		le.CommandRun = &CommandRun{Argv: argv, Background: background, Builtin: builtin}
	})
}

func (s *SessionLogger) LogJobStarted(pid int) error {
	return s.record(s.sessionID, func(le *LogEntry) {
		le.JobStarted = &JobStarted{PID: pid}
	})
}

func (s *SessionLogger) LogJobReaped(pid int, status string) error {
	return s.record(s.sessionID, func(le *LogEntry) {
		le.JobReaped = &JobReaped{PID: pid, Status: status}
	})
}

func (s *SessionLogger) LogModeToggle(foregroundOnly bool) error {
	return s.record(s.sessionID, func(le *LogEntry) {
		le.ModeToggle = &ModeToggle{ForegroundOnly: foregroundOnly}
	})
}

func (s *SessionLogger) LogExecFailure(name string, execErr error) error {
	return s.record(s.sessionID, func(le *LogEntry) {
		le.ExecFailure = &ExecFailure{Name: name, Error: execErr.Error()}
	})
}

// Describe renders the entry as a single human readable line.
func (le *LogEntry) Describe() string {
	ts := time.UnixMicro(le.TimestampMicros).UTC().Format(time.RFC3339)

	var what string
	switch {
	case le.SessionStart != nil:
		what = fmt.Sprintf("session start (shell pid %d)", le.SessionStart.ShellPID)
	case le.CommandRun != nil:
		what = "run " + strings.Join(le.CommandRun.Argv, " ")
		if le.CommandRun.Background {
			what += " (background)"
		}
		if le.CommandRun.Builtin {
			what += " (builtin)"
		}
	case le.JobStarted != nil:
		what = fmt.Sprintf("job %d started", le.JobStarted.PID)
	case le.JobReaped != nil:
		what = fmt.Sprintf("job %d reaped: %s", le.JobReaped.PID, le.JobReaped.Status)
	case le.ModeToggle != nil:
		if le.ModeToggle.ForegroundOnly {
			what = "entered foreground only mode"
		} else {
			what = "exited foreground only mode"
		}
	case le.ExecFailure != nil:
		what = fmt.Sprintf("could not run %s: %s", le.ExecFailure.Name, le.ExecFailure.Error)
	default:
		what = "unknown event"
	}

	return fmt.Sprintf("%s [%s] %s", ts, le.SessionID, what)
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}
