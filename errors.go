package rshell

import "github.com/wagiedev/remote-shell-go/internal/errors"

// Re-export error types from internal package

// TransportNotFoundError indicates the transport executable was not found.
type TransportNotFoundError = errors.TransportNotFoundError

// LaunchError indicates the transport process could not be started.
type LaunchError = errors.LaunchError

// WriteFailure indicates a command could not be delivered to the shell's input.
type WriteFailure = errors.WriteFailure

// ChannelError indicates the session's writer is gone.
type ChannelError = errors.ChannelError

// ProcessError indicates waiting for the transport process failed.
type ProcessError = errors.ProcessError

// RemoteShellError is the base interface for all session errors.
type RemoteShellError = errors.RemoteShellError

// Re-export sentinel errors from internal package.
var (
	// ErrSessionClosed indicates the session is closing or closed.
	ErrSessionClosed = errors.ErrSessionClosed

	// ErrWorkerStopped indicates the writer goroutine exited unexpectedly.
	ErrWorkerStopped = errors.ErrWorkerStopped

	// ErrInvalidDestination indicates the destination is empty or looks like an option.
	ErrInvalidDestination = errors.ErrInvalidDestination
)

// Write steps reported in WriteFailure.Step.
const (
	StepWrite      = errors.StepWrite
	StepTerminator = errors.StepTerminator
	StepFlush      = errors.StepFlush
)
