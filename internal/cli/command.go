package cli

import (
	"maps"
	"os"
	"slices"

	"github.com/wagiedev/remote-shell-go/internal/config"
)

// BuildArgs constructs the transport arguments for a session to destination.
//
// Transport flags come first, then the destination, then the remote shell and
// its arguments:
//
//	[transportArgs..., destination, shell, shellArgs...]
func BuildArgs(destination string, options *config.Options) []string {
	shellArgs := options.Args()

	args := make([]string, 0, len(options.TransportArgs)+2+len(shellArgs))
	args = append(args, options.TransportArgs...)
	args = append(args, destination, options.Shell())
	args = append(args, shellArgs...)

	return args
}

// BuildEnvironment returns the current environment with options.Env appended
// in key order. Later entries override earlier ones for os/exec.
func BuildEnvironment(options *config.Options) []string {
	env := os.Environ()

	for _, key := range slices.Sorted(maps.Keys(options.Env)) {
		env = append(env, key+"="+options.Env[key])
	}

	return env
}
