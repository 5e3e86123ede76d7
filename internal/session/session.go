package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/remote-shell-go/internal/config"
	"github.com/wagiedev/remote-shell-go/internal/errors"
	"github.com/wagiedev/remote-shell-go/internal/subprocess"
	"github.com/wagiedev/remote-shell-go/internal/writer"
)

// State is the lifecycle state of a Session.
type State int32

const (
	// StateOpen accepts commands.
	StateOpen State = iota
	// StateClosing is entered when Close begins. Submit fails from here on.
	StateClosing
	// StateClosed is entered once the process has exited and the writer has
	// been joined.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Process is the transport process a Session drives.
type Process interface {
	// Stdin returns the process's input stream. It is handed to the writer.
	Stdin() io.WriteCloser
	// Wait blocks until the process exits.
	Wait() error
	// ExitCode returns the recorded exit status, or -1.
	ExitCode() int
}

// Compile-time verification that subprocess.Process implements Process.
var _ Process = (*subprocess.Process)(nil)

// runFunc is the writer loop a Session runs in its worker goroutine.
type runFunc func(commands <-chan writer.Command, results chan<- error) error

// Session is an open remote shell.
type Session struct {
	log         *slog.Logger
	id          string
	destination string
	proc        Process

	commands   chan writer.Command
	results    chan error
	eg         *errgroup.Group
	workerDone chan struct{}

	mu    sync.Mutex // serializes Submit and Close
	state atomic.Int32
}

// Open starts the transport process for destination and launches the writer
// that owns its stdin.
//
// Returns a *errors.LaunchError if the destination is invalid or the process
// cannot be started. The context bounds only the launch; the session stays
// open until Close.
func Open(ctx context.Context, destination string, options *config.Options) (*Session, error) {
	if options == nil {
		options = &config.Options{}
	}

	if err := validateDestination(destination); err != nil {
		return nil, &errors.LaunchError{Transport: options.TransportPath, Err: err}
	}

	log := options.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	id := ulid.Make().String()
	log = log.With("session_id", id, "destination", destination)

	proc, err := subprocess.Spawn(ctx, log, destination, options)
	if err != nil {
		return nil, err
	}

	w := writer.New(log, proc.Stdin())

	return newSession(log, id, destination, proc, w.Run), nil
}

func newSession(log *slog.Logger, id, destination string, proc Process, run runFunc) *Session {
	s := &Session{
		log:         log.With("component", "session"),
		id:          id,
		destination: destination,
		proc:        proc,
		commands:    make(chan writer.Command, 1),
		results:     make(chan error, 1),
		eg:          new(errgroup.Group),
		workerDone:  make(chan struct{}),
	}

	s.eg.Go(func() error {
		defer close(s.workerDone)

		return run(s.commands, s.results)
	})

	s.log.Info("Session opened")

	return s
}

func validateDestination(destination string) error {
	if strings.TrimSpace(destination) == "" {
		return fmt.Errorf("%w: empty", errors.ErrInvalidDestination)
	}

	if strings.HasPrefix(destination, "-") {
		return fmt.Errorf("%w: %q looks like an option", errors.ErrInvalidDestination, destination)
	}

	return nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Destination returns the destination the session was opened against.
func (s *Session) Destination() string {
	return s.destination
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// ExitCode returns the transport's exit status once the session is closed,
// or -1 before that or when the process was terminated by a signal.
func (s *Session) ExitCode() int {
	return s.proc.ExitCode()
}

// Submit delivers command to the shell's input followed by a newline and
// blocks until the write has completed or failed.
//
// It returns nil on success, a *errors.WriteFailure if writing or flushing
// the input failed, or a *errors.ChannelError if the writer is gone (wrapping
// errors.ErrSessionClosed after Close has begun, errors.ErrWorkerStopped
// otherwise). There is no timeout: a stalled input stream stalls Submit.
//
// Submit is safe for concurrent use; calls are delivered one at a time.
func (s *Session) Submit(command string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() != StateOpen {
		return &errors.ChannelError{Op: errors.OpSend, Err: errors.ErrSessionClosed}
	}

	s.log.Debug("Submitting command", "command_len", len(command))

	select {
	case s.commands <- writer.Command{Text: command}:
	case <-s.workerDone:
		s.log.Error("Writer stopped before command could be sent")

		return &errors.ChannelError{Op: errors.OpSend, Err: errors.ErrWorkerStopped}
	}

	outcome, ok := <-s.results
	if !ok {
		s.log.Error("Writer stopped before reporting an outcome")

		return &errors.ChannelError{Op: errors.OpReceive, Err: errors.ErrWorkerStopped}
	}

	if outcome != nil {
		s.log.Warn("Command was not delivered", "error", outcome)

		return outcome
	}

	return nil
}

// SubmitAll submits commands in order and stops at the first failure, which
// is returned annotated with the command's index.
func (s *Session) SubmitAll(commands ...string) error {
	for i, command := range commands {
		if err := s.Submit(command); err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
	}

	return nil
}

// Close ends the session: it closes the command channel, which makes the
// writer close the shell's input, waits for the transport process to exit
// and joins the writer, in that order.
//
// It returns a *errors.ProcessError if waiting for the process failed, and
// errors.ErrSessionClosed if the session was already closed. A non-zero exit
// status is not an error; see ExitCode. A panic in the writer is not
// recovered.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CompareAndSwap(int32(StateOpen), int32(StateClosing)) {
		return errors.ErrSessionClosed
	}

	s.log.Debug("Closing session")

	close(s.commands)

	waitErr := s.proc.Wait()

	joinErr := s.eg.Wait()

	s.state.Store(int32(StateClosed))

	if waitErr != nil {
		s.log.Error("Session closed with process error", "error", waitErr)

		return waitErr
	}

	if joinErr != nil {
		return fmt.Errorf("join writer: %w", joinErr)
	}

	s.log.Info("Session closed", "exit_code", s.proc.ExitCode())

	return nil
}
