// Package config provides configuration types for remote shell sessions.
package config

import (
	"io"
	"log/slog"
	"maps"
	"slices"
)

const (
	// DefaultTransport is the transport executable looked up in PATH when no
	// explicit path is configured.
	DefaultTransport = "ssh"

	// DefaultShellPath is the shell the transport runs on the remote side.
	DefaultShellPath = "/bin/bash"
)

// DefaultShellArgs returns the arguments passed to the remote shell by default.
// Line editing is disabled so input arrives as plain lines.
func DefaultShellArgs() []string {
	return []string{"--noediting"}
}

// Options configures a remote shell session.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// TransportPath is the explicit path to the transport executable.
	// If empty, DefaultTransport is searched in PATH.
	TransportPath string

	// TransportArgs are extra transport flags placed before the destination
	// (e.g. "-p", "2222").
	TransportArgs []string

	// ShellPath is the remote shell to invoke. Defaults to DefaultShellPath.
	ShellPath string

	// ShellArgs are passed to the remote shell. If nil, DefaultShellArgs is used.
	// An empty non-nil slice passes no arguments.
	ShellArgs []string

	// Env provides additional environment variables for the transport process.
	Env map[string]string

	// Cwd sets the working directory for the transport process.
	// If empty, the current working directory is inherited.
	Cwd string

	// Stdout receives the transport's standard output. Defaults to os.Stdout.
	Stdout io.Writer

	// Stderr receives the transport's standard error. Defaults to os.Stderr.
	Stderr io.Writer
}

// Shell returns the configured shell path, falling back to DefaultShellPath.
func (o *Options) Shell() string {
	if o.ShellPath == "" {
		return DefaultShellPath
	}

	return o.ShellPath
}

// Args returns the configured shell arguments, falling back to DefaultShellArgs.
func (o *Options) Args() []string {
	if o.ShellArgs == nil {
		return DefaultShellArgs()
	}

	return slices.Clone(o.ShellArgs)
}

// Clone returns a copy of the options that shares no slices or maps with o.
func (o *Options) Clone() *Options {
	if o == nil {
		return &Options{}
	}

	clone := *o
	clone.TransportArgs = slices.Clone(o.TransportArgs)
	clone.ShellArgs = slices.Clone(o.ShellArgs)
	clone.Env = maps.Clone(o.Env)

	return &clone
}
