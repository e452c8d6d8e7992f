package proc

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStdioForeground(t *testing.T) {
	s, err := openStdio("", "", false)
	require.Nil(t, err)
	defer s.Close()

	assert.Nil(t, s.in, "foreground inherits the shell's stdin")
	assert.Nil(t, s.out, "foreground inherits the shell's stdout")
}

func TestOpenStdioBackgroundNullDevice(t *testing.T) {
	s, err := openStdio("", "", true)
	require.Nil(t, err)
	defer s.Close()

	require.NotNil(t, s.in)
	require.NotNil(t, s.out)
	assert.Equal(t, devNull, s.in.Name())
	assert.Equal(t, devNull, s.out.Name())
}

func TestOpenStdioExplicitPaths(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.txt")
	outPath := filepath.Join(dir, "out.txt")
	require.Nil(t, ioutil.WriteFile(inPath, []byte("x"), 0600))

	s, err := openStdio(inPath, outPath, true)
	require.Nil(t, err)
	defer s.Close()

	assert.Equal(t, inPath, s.in.Name())
	assert.Equal(t, outPath, s.out.Name())

	info, err := os.Stat(outPath)
	require.Nil(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestOpenStdioMissingInput(t *testing.T) {
	_, err := openStdio(filepath.Join(t.TempDir(), "nope.txt"), "", false)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "cannot open")
}

func TestOpenStdioBadOutputDir(t *testing.T) {
	_, err := openStdio("", filepath.Join(t.TempDir(), "no-such-dir", "out.txt"), false)
	assert.NotNil(t, err)
}
