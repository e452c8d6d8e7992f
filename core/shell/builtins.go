package shell

import (
	"os"
)

// AllBuiltins holds the builtin commands the shell intercepts before
// PATH resolution. Builtins never fork.
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// Cd is the cd shell builtin. With no argument it changes to $HOME.
func Cd(s *Shell, args []string) int {
	switch len(args) {
	case 1:
		args = append(args, os.Getenv("HOME"))
		fallthrough
	case 2:
		if err := os.Chdir(args[1]); err != nil {
			colorBoldRed.Fprintf(s.stderr, "%s: %v\n", args[0], err)
			return 1
		}
	default:
		colorBoldRed.Fprintf(s.stderr, "%s: too many arguments\n", args[0])
		return 1
	}
	return 0
}

// Status reports the termination of the last foreground command.
func Status(s *Shell, args []string) int {
	s.reporter.ReportLast(s.stdout)
	return 0
}

// Exit terminates every tracked background job, waits for each, and
// quits the shell.
func Exit(s *Shell, args []string) int {
	s.table.TerminateAll()
	s.quit = true
	return 0
}

func init() {
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["status"] = ShellBuiltinFunc(Status)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
}
