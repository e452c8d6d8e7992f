package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Command is the parsed result of one input line.
type Command struct {
	// Argv holds the program name followed by its arguments.
	Argv []string
	// InputPath redirects the command's stdin when non-empty.
	InputPath string
	// OutputPath redirects the command's stdout when non-empty.
	OutputPath string
	// Background is set when the line contained a standalone "&" token.
	Background bool
}

// Limits bound a single parsed command line.
type Limits struct {
	MaxArgs int
}

var (
	errMissingInputPath  = errors.New("syntax error: '<' requires a path")
	errMissingOutputPath = errors.New("syntax error: '>' requires a path")
)

// Parse splits a raw line into a Command. Blank lines and lines whose
// first token starts with "#" yield a nil Command and no error.
//
// The grammar is whitespace-separated tokens: "<" and ">" consume the
// following token as a redirection path, any "&" marks the command for
// the background, and every other token joins Argv after pid
// substitution. The program name itself is taken verbatim.
func Parse(line string, pid int, limits Limits) (*Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, nil
	}
	if strings.HasPrefix(tokens[0], "#") {
		return nil, nil
	}

	cmd := &Command{Argv: []string{tokens[0]}}

	for i := 1; i < len(tokens); i++ {
		switch tokens[i] {
		case "<":
			i++
			if i >= len(tokens) {
				return nil, errMissingInputPath
			}
			cmd.InputPath = tokens[i]
		case ">":
			i++
			if i >= len(tokens) {
				return nil, errMissingOutputPath
			}
			cmd.OutputPath = tokens[i]
		case "&":
			cmd.Background = true
		default:
			cmd.Argv = append(cmd.Argv, substitutePid(tokens[i], pid))
		}
	}

	if limits.MaxArgs > 0 && len(cmd.Argv) > limits.MaxArgs {
		return nil, fmt.Errorf("too many arguments (max %d)", limits.MaxArgs)
	}

	return cmd, nil
}

// substitutePid replaces the first "$$" in a token with pid. The token
// is cut at the marker; text after it is dropped, not preserved.
func substitutePid(token string, pid int) string {
	if i := strings.Index(token, "$$"); i >= 0 {
		return token[:i] + strconv.Itoa(pid)
	}
	return token
}
