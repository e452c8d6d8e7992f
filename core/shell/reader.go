package shell

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrLineTooLong reports an input line longer than the configured bound.
// The oversized line is consumed, so the next read starts on a fresh
// line.
var ErrLineTooLong = errors.New("input line too long")

// LineReader reads raw command lines in cooked mode. The prompt is only
// written when the input is a terminal, so piped scripts replay without
// prompt noise. Cooked mode matters: it leaves the terminal free to
// generate the stop signal that drives the foreground-only toggle.
type LineReader struct {
	in          *bufio.Reader
	out         io.Writer
	prompt      string
	maxBytes    int
	interactive bool
}

// NewLineReader wraps in with a bounded line reader.
func NewLineReader(in io.Reader, out io.Writer, prompt string, maxLineBytes int) *LineReader {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	return &LineReader{
		in:          bufio.NewReader(in),
		out:         out,
		prompt:      prompt,
		maxBytes:    maxLineBytes,
		interactive: interactive,
	}
}

// ReadLine prompts if interactive and returns the next input line
// without its trailing newline. A line over the bound is drained to its
// end and reported as ErrLineTooLong; the reader stays usable. Returns
// io.EOF once input is exhausted.
func (r *LineReader) ReadLine() (string, error) {
	if r.interactive {
		fmt.Fprint(r.out, r.prompt)
	}

	var line []byte
	overLimit := false
	for {
		chunk, err := r.in.ReadSlice('\n')
		if !overLimit {
			line = append(line, chunk...)
			if len(bytes.TrimSuffix(line, []byte("\n"))) > r.maxBytes {
				overLimit = true
				line = nil
			}
		}

		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF {
			if !overLimit && len(line) == 0 {
				return "", io.EOF
			}
			break
		}
		if err != nil {
			return "", err
		}
		break
	}

	if overLimit {
		return "", fmt.Errorf("%w (max %d bytes)", ErrLineTooLong, r.maxBytes)
	}
	return string(bytes.TrimSuffix(line, []byte("\n"))), nil
}
