package proc

import (
	"fmt"
	"os"
)

const devNull = "/dev/null"

// stdio holds the files a child's standard streams are rebound to. Nil
// entries mean the stream is inherited from the shell.
type stdio struct {
	in  *os.File
	out *os.File
}

// openStdio resolves the standard streams for a child before launch. An
// explicit input path opens read-only and an explicit output path opens
// write-truncate-create with mode 0644. A background command with no
// explicit path gets the null device instead of the terminal so it can
// never steal interactive input or scribble on the prompt.
func openStdio(inputPath, outputPath string, background bool) (*stdio, error) {
	var s stdio

	switch {
	case inputPath != "":
		fd, err := os.Open(inputPath)
		if err != nil {
			return nil, fmt.Errorf("cannot open %s for input", inputPath)
		}
		s.in = fd
	case background:
		fd, err := os.Open(devNull)
		if err != nil {
			return nil, err
		}
		s.in = fd
	}

	switch {
	case outputPath != "":
		fd, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("cannot open %s for output", outputPath)
		}
		s.out = fd
	case background:
		fd, err := os.OpenFile(devNull, os.O_WRONLY, 0)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.out = fd
	}

	return &s, nil
}

// Close releases the shell's copies of the descriptors. The child holds
// its own after start.
func (s *stdio) Close() {
	if s.in != nil {
		s.in.Close()
	}
	if s.out != nil {
		s.out.Close()
	}
}
