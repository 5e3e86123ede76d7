package session

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wagiedev/remote-shell-go/internal/config"
	"github.com/wagiedev/remote-shell-go/internal/errors"
	"github.com/wagiedev/remote-shell-go/internal/testutil"
	"github.com/wagiedev/remote-shell-go/internal/writer"
)

// fakeProcess behaves like a shell that exits once its stdin reaches EOF.
type fakeProcess struct {
	stdin   *io.PipeWriter
	exited  chan struct{}
	waitErr error

	mu       sync.Mutex
	received bytes.Buffer
}

func newFakeProcess() *fakeProcess {
	reader, pipe := io.Pipe()
	p := &fakeProcess{
		stdin:  pipe,
		exited: make(chan struct{}),
	}

	go func() {
		defer close(p.exited)

		buf := make([]byte, 512)
		for {
			n, err := reader.Read(buf)
			p.mu.Lock()
			p.received.Write(buf[:n])
			p.mu.Unlock()

			if err != nil {
				return
			}
		}
	}()

	return p
}

func (p *fakeProcess) Stdin() io.WriteCloser { return p.stdin }

func (p *fakeProcess) Wait() error {
	<-p.exited

	return p.waitErr
}

func (p *fakeProcess) ExitCode() int { return 0 }

func (p *fakeProcess) Received() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.received.String()
}

func openFake(t *testing.T) (*Session, *fakeProcess) {
	t.Helper()

	proc := newFakeProcess()
	w := writer.New(slog.Default(), proc.Stdin())

	return newSession(slog.Default(), "test", "host1", proc, w.Run), proc
}

func TestSubmit_DeliversInOrder(t *testing.T) {
	s, proc := openFake(t)

	require.Equal(t, StateOpen, s.State())
	require.NoError(t, s.Submit("ls"))
	require.NoError(t, s.Submit("pwd"))
	require.NoError(t, s.Close())

	require.Equal(t, "ls\npwd\n", proc.Received())
	require.Equal(t, StateClosed, s.State())

	select {
	case <-s.workerDone:
	default:
		t.Fatal("writer still running after Close returned")
	}
}

func TestSubmit_ConcurrentCallersDoNotInterleave(t *testing.T) {
	s, proc := openFake(t)

	const callers = 8

	const perCaller = 25

	var wg sync.WaitGroup

	for c := range callers {
		wg.Go(func() {
			for i := range perCaller {
				assert.NoError(t, s.Submit("echo "+strconv.Itoa(c)+"-"+strconv.Itoa(i)))
			}
		})
	}

	wg.Wait()
	require.NoError(t, s.Close())

	lines := bytes.Split(bytes.TrimSuffix([]byte(proc.Received()), []byte("\n")), []byte("\n"))
	require.Len(t, lines, callers*perCaller)

	// Each caller's commands keep their relative order.
	next := make(map[string]int, callers)

	for _, line := range lines {
		var caller, seq int

		_, err := fmt.Sscanf(string(line), "echo %d-%d", &caller, &seq)
		require.NoError(t, err)

		key := strconv.Itoa(caller)
		require.Equal(t, next[key], seq)
		next[key]++
	}
}

func TestSubmit_AfterClose(t *testing.T) {
	s, _ := openFake(t)
	require.NoError(t, s.Close())

	err := s.Submit("ls")

	channelErr, ok := stderrors.AsType[*errors.ChannelError](err)
	require.True(t, ok, "expected ChannelError, got %T", err)
	require.Equal(t, errors.OpSend, channelErr.Op)
	require.ErrorIs(t, err, errors.ErrSessionClosed)
}

func TestClose_Twice(t *testing.T) {
	s, _ := openFake(t)

	require.NoError(t, s.Close())
	require.ErrorIs(t, s.Close(), errors.ErrSessionClosed)
	require.Equal(t, StateClosed, s.State())
}

func TestClose_ProcessError(t *testing.T) {
	proc := newFakeProcess()
	proc.waitErr = &errors.ProcessError{ExitCode: -1, Err: stderrors.New("wait failed")}
	w := writer.New(slog.Default(), proc.Stdin())
	s := newSession(slog.Default(), "test", "host1", proc, w.Run)

	err := s.Close()

	_, ok := stderrors.AsType[*errors.ProcessError](err)
	require.True(t, ok, "expected ProcessError, got %T", err)
	require.Equal(t, StateClosed, s.State())
}

func TestSubmit_WriteFailure(t *testing.T) {
	proc := newFakeProcess()
	brokenReader, broken := io.Pipe()
	require.NoError(t, brokenReader.Close())

	w := writer.New(slog.Default(), broken)
	s := newSession(slog.Default(), "test", "host1", proc, w.Run)

	err := s.Submit("ls")

	_, ok := stderrors.AsType[*errors.WriteFailure](err)
	require.True(t, ok, "expected WriteFailure, got %T", err)

	_, isChannel := stderrors.AsType[*errors.ChannelError](err)
	require.False(t, isChannel)

	// The writer keeps running after a failure.
	err = s.Submit("ls")
	_, ok = stderrors.AsType[*errors.WriteFailure](err)
	require.True(t, ok, "expected WriteFailure, got %T", err)

	require.NoError(t, proc.Stdin().Close())
	require.NoError(t, s.Close())
}

func TestSubmit_WorkerStoppedBeforeOutcome(t *testing.T) {
	proc := newFakeProcess()

	// A writer that takes one command and dies without answering.
	run := func(commands <-chan writer.Command, results chan<- error) error {
		defer close(results)

		<-commands

		return nil
	}

	s := newSession(slog.Default(), "test", "host1", proc, run)

	err := s.Submit("ls")

	channelErr, ok := stderrors.AsType[*errors.ChannelError](err)
	require.True(t, ok, "expected ChannelError, got %T", err)
	require.Equal(t, errors.OpReceive, channelErr.Op)
	require.ErrorIs(t, err, errors.ErrWorkerStopped)

	require.NoError(t, proc.Stdin().Close())
	require.NoError(t, s.Close())
}

func TestSubmit_WorkerStoppedBeforeSend(t *testing.T) {
	proc := newFakeProcess()

	run := func(_ <-chan writer.Command, results chan<- error) error {
		close(results)

		return nil
	}

	s := newSession(slog.Default(), "test", "host1", proc, run)

	// Fill the command slot so the next send can only complete through the
	// worker-stopped branch.
	s.commands <- writer.Command{Text: "stuck"}

	require.Eventually(t, func() bool {
		select {
		case <-s.workerDone:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	err := s.Submit("ls")

	channelErr, ok := stderrors.AsType[*errors.ChannelError](err)
	require.True(t, ok, "expected ChannelError, got %T", err)
	require.Equal(t, errors.OpSend, channelErr.Op)
	require.ErrorIs(t, err, errors.ErrWorkerStopped)

	require.NoError(t, proc.Stdin().Close())
	require.NoError(t, s.Close())
}

func TestClose_JoinError(t *testing.T) {
	proc := newFakeProcess()
	joinErr := stderrors.New("writer failed")

	run := func(commands <-chan writer.Command, results chan<- error) error {
		defer close(results)

		for range commands {
			results <- nil
		}

		return joinErr
	}

	s := newSession(slog.Default(), "test", "host1", proc, run)
	require.NoError(t, proc.Stdin().Close())

	require.ErrorIs(t, s.Close(), joinErr)
}

func TestSubmitAll_StopsAtFirstFailure(t *testing.T) {
	proc := newFakeProcess()
	calls := 0

	run := func(commands <-chan writer.Command, results chan<- error) error {
		defer close(results)

		for range commands {
			calls++
			if calls == 2 {
				results <- &errors.WriteFailure{Step: errors.StepFlush, Err: io.ErrClosedPipe}

				continue
			}

			results <- nil
		}

		return nil
	}

	s := newSession(slog.Default(), "test", "host1", proc, run)

	err := s.SubmitAll("a", "b", "c")
	require.ErrorContains(t, err, "command 1:")
	require.ErrorIs(t, err, io.ErrClosedPipe)
	require.Equal(t, 2, calls)

	require.NoError(t, proc.Stdin().Close())
	require.NoError(t, s.Close())
}

func TestStateString(t *testing.T) {
	require.Equal(t, "open", StateOpen.String())
	require.Equal(t, "closing", StateClosing.String())
	require.Equal(t, "closed", StateClosed.String())
	require.Equal(t, "State(7)", State(7).String())
}

func TestOpen_InvalidDestination(t *testing.T) {
	for _, destination := range []string{"", "   ", "-oProxyCommand=evil"} {
		_, err := Open(context.Background(), destination, nil)

		_, ok := stderrors.AsType[*errors.LaunchError](err)
		require.True(t, ok, "expected LaunchError for %q, got %T", destination, err)
		require.ErrorIs(t, err, errors.ErrInvalidDestination)
	}
}

func TestOpen_LaunchError(t *testing.T) {
	_, err := Open(context.Background(), "host1", &config.Options{TransportPath: "/nonexistent/ssh"})

	_, ok := stderrors.AsType[*errors.LaunchError](err)
	require.True(t, ok, "expected LaunchError, got %T", err)
}

func TestOpen_Scenario(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Test requires /bin/sh")
	}

	rec := testutil.NewRecorder(t)

	s, err := Open(context.Background(), "host1", &config.Options{
		TransportPath: rec.Path,
		Logger:        slog.Default(),
	})
	require.NoError(t, err)
	require.Len(t, s.ID(), 26)
	require.Equal(t, "host1", s.Destination())
	require.Equal(t, -1, s.ExitCode())

	require.NoError(t, s.Submit("ls"))
	require.NoError(t, s.Submit("pwd"))
	require.NoError(t, s.Close())

	require.Equal(t, "ls\npwd\n", rec.Stdin(t))
	require.Equal(t, []string{"host1", "/bin/bash", "--noediting"}, rec.Args(t))
	require.Equal(t, 0, s.ExitCode())
}

func TestOpen_PreBrokenInput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Test requires /bin/sh")
	}

	script := testutil.Script(t, t.TempDir(), "exec 0<&-\nexit 0\n")

	s, err := Open(context.Background(), "host1", &config.Options{TransportPath: script})
	require.NoError(t, err)

	// Once the child has exited, writes to its stdin fail with EPIPE.
	var lastErr error

	require.Eventually(t, func() bool {
		lastErr = s.Submit("ls")

		return lastErr != nil
	}, 5*time.Second, 10*time.Millisecond)

	_, ok := stderrors.AsType[*errors.WriteFailure](lastErr)
	require.True(t, ok, "expected WriteFailure, got %T: %v", lastErr, lastErr)

	require.NoError(t, s.Close())
	require.Equal(t, 0, s.ExitCode())
}
