package rshell

import (
	"io"
	"log/slog"
	"maps"

	"github.com/wagiedev/remote-shell-go/internal/config"
)

// Options configures a Session.
type Options = config.Options

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to a new Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithTransportPath sets an explicit path to the transport executable.
// If not set, ssh is looked up in PATH.
func WithTransportPath(path string) Option {
	return func(o *Options) {
		o.TransportPath = path
	}
}

// WithTransportArgs adds transport flags placed before the destination,
// e.g. WithTransportArgs("-p", "2222").
func WithTransportArgs(args ...string) Option {
	return func(o *Options) {
		o.TransportArgs = append(o.TransportArgs, args...)
	}
}

// WithShell sets the remote shell and its arguments. Passing no arguments
// runs the shell without any; the default is /bin/bash --noediting.
func WithShell(path string, args ...string) Option {
	return func(o *Options) {
		o.ShellPath = path
		o.ShellArgs = append([]string{}, args...)
	}
}

// WithEnv sets additional environment variables for the transport process.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string, len(env))
		}

		maps.Copy(o.Env, env)
	}
}

// WithCwd sets the working directory of the transport process.
func WithCwd(dir string) Option {
	return func(o *Options) {
		o.Cwd = dir
	}
}

// WithStdout sets where the shell's standard output goes. Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(o *Options) {
		o.Stdout = w
	}
}

// WithStderr sets where the shell's standard error goes. Defaults to os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(o *Options) {
		o.Stderr = w
	}
}

// WithOptions copies every field of base. Options listed after it override it.
func WithOptions(base *Options) Option {
	return func(o *Options) {
		*o = *base.Clone()
	}
}
