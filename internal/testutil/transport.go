// Package testutil provides stand-in transport executables for tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Recorder is a fake transport that records its arguments and everything
// written to its stdin, then exits when stdin reaches EOF.
type Recorder struct {
	Path      string
	argsFile  string
	stdinFile string
}

// NewRecorder writes a recording transport script into a temp directory.
func NewRecorder(t *testing.T) *Recorder {
	t.Helper()

	dir := t.TempDir()
	r := &Recorder{
		argsFile:  filepath.Join(dir, "args"),
		stdinFile: filepath.Join(dir, "stdin"),
	}
	r.Path = Script(t, dir, "printf '%s\\n' \"$@\" > '"+r.argsFile+"'\ncat > '"+r.stdinFile+"'\n")

	return r
}

// Args returns the arguments the transport was started with.
func (r *Recorder) Args(t *testing.T) []string {
	t.Helper()

	data, err := os.ReadFile(r.argsFile)
	require.NoError(t, err)

	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

// Stdin returns the bytes the transport received on stdin.
func (r *Recorder) Stdin(t *testing.T) string {
	t.Helper()

	data, err := os.ReadFile(r.stdinFile)
	require.NoError(t, err)

	return string(data)
}

// Script writes an executable /bin/sh script with the given body into dir
// and returns its path.
func Script(t *testing.T, dir, body string) string {
	t.Helper()

	path := filepath.Join(dir, "transport.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))

	return path
}
