package errors

import (
	"errors"
	"fmt"
)

// RemoteShellError is the base interface for all session errors.
type RemoteShellError interface {
	error
	IsRemoteShellError() bool
}

// Compile-time verification that all error types implement RemoteShellError.
var (
	_ RemoteShellError = (*TransportNotFoundError)(nil)
	_ RemoteShellError = (*LaunchError)(nil)
	_ RemoteShellError = (*WriteFailure)(nil)
	_ RemoteShellError = (*ChannelError)(nil)
	_ RemoteShellError = (*ProcessError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrSessionClosed indicates the session is closing or closed and accepts no more commands.
	ErrSessionClosed = errors.New("session closed")

	// ErrWorkerStopped indicates the writer goroutine exited while the session was open.
	ErrWorkerStopped = errors.New("writer stopped")

	// ErrInvalidDestination indicates the destination is empty or would be
	// parsed as a transport option.
	ErrInvalidDestination = errors.New("invalid destination")
)

// Write steps reported by WriteFailure.
const (
	StepWrite      = "write"
	StepTerminator = "terminator"
	StepFlush      = "flush"
)

// Channel operations reported by ChannelError.
const (
	OpSend    = "send"
	OpReceive = "receive"
)

// TransportNotFoundError indicates the transport executable was not found.
type TransportNotFoundError struct {
	SearchedPaths []string
}

func (e *TransportNotFoundError) Error() string {
	return fmt.Sprintf("transport executable not found in: %v", e.SearchedPaths)
}

// IsRemoteShellError implements RemoteShellError.
func (e *TransportNotFoundError) IsRemoteShellError() bool { return true }

// LaunchError indicates the transport process could not be started or its
// input stream could not be captured.
type LaunchError struct {
	Transport string
	Err       error
}

func (e *LaunchError) Error() string {
	if e.Transport == "" {
		return fmt.Sprintf("failed to launch transport: %v", e.Err)
	}

	return fmt.Sprintf("failed to launch transport %s: %v", e.Transport, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// IsRemoteShellError implements RemoteShellError.
func (e *LaunchError) IsRemoteShellError() bool { return true }

// WriteFailure indicates a command could not be delivered to the shell's input.
// Step names the first step that failed; later steps were not attempted.
type WriteFailure struct {
	Step string
	Err  error
}

func (e *WriteFailure) Error() string {
	return fmt.Sprintf("shell input %s failed: %v", e.Step, e.Err)
}

func (e *WriteFailure) Unwrap() error {
	return e.Err
}

// IsRemoteShellError implements RemoteShellError.
func (e *WriteFailure) IsRemoteShellError() bool { return true }

// ChannelError indicates the channel between a session and its writer closed
// unexpectedly. No outcome will ever arrive for the command that hit it.
type ChannelError struct {
	Op  string
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("command channel %s failed: %v", e.Op, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// IsRemoteShellError implements RemoteShellError.
func (e *ChannelError) IsRemoteShellError() bool { return true }

// ProcessError indicates waiting for the transport process failed.
type ProcessError struct {
	ExitCode int
	Err      error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("transport process failed (exit %d): %v", e.ExitCode, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsRemoteShellError implements RemoteShellError.
func (e *ProcessError) IsRemoteShellError() bool { return true }
