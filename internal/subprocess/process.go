package subprocess

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"

	"github.com/wagiedev/remote-shell-go/internal/cli"
	"github.com/wagiedev/remote-shell-go/internal/config"
	"github.com/wagiedev/remote-shell-go/internal/errors"
)

// Process is a running transport process with a captured stdin.
type Process struct {
	log       *slog.Logger
	transport string
	args      []string
	cmd       *exec.Cmd
	stdin     io.WriteCloser

	mu       sync.Mutex
	exitCode int
}

// Spawn discovers the transport executable and starts it against destination,
// running the configured remote shell.
//
// Returns a *errors.LaunchError if the transport cannot be found or started,
// or if its stdin cannot be captured. The context only bounds discovery; the
// process is not tied to it.
func Spawn(
	ctx context.Context,
	log *slog.Logger,
	destination string,
	options *config.Options,
) (*Process, error) {
	log = log.With("component", "subprocess")

	discoverer := cli.NewDiscoverer(&cli.Config{
		TransportPath: options.TransportPath,
		Logger:        log,
	})

	transport, err := discoverer.Discover(ctx)
	if err != nil {
		return nil, &errors.LaunchError{Transport: options.TransportPath, Err: err}
	}

	args := cli.BuildArgs(destination, options)
	log.Debug("Built transport arguments", "transport", transport, "args", args)

	//nolint:gosec // G204: the transport and its arguments are caller-configured
	cmd := exec.Command(transport, args...)
	cmd.Dir = options.Cwd
	cmd.Env = cli.BuildEnvironment(options)

	cmd.Stdout = options.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}

	cmd.Stderr = options.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		log.Error("Failed to create stdin pipe", "error", err)

		return nil, &errors.LaunchError{Transport: transport, Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		log.Error("Failed to start transport process", "error", err)

		return nil, &errors.LaunchError{Transport: transport, Err: fmt.Errorf("start process: %w", err)}
	}

	log.Info("Transport process started", "pid", cmd.Process.Pid, "destination", destination)

	return &Process{
		log:       log.With("pid", cmd.Process.Pid),
		transport: transport,
		args:      args,
		cmd:       cmd,
		stdin:     stdin,
		exitCode:  -1,
	}, nil
}

// Stdin returns the process's input stream. The caller that receives it owns it.
func (p *Process) Stdin() io.WriteCloser {
	return p.stdin
}

// Pid returns the operating system process ID.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Transport returns the resolved transport executable path.
func (p *Process) Transport() string {
	return p.transport
}

// Args returns the arguments the transport was started with.
func (p *Process) Args() []string {
	return p.args
}

// Wait blocks until the process exits.
//
// A non-zero exit status is recorded (see ExitCode) but is not an error; only
// a failure to wait is reported, as a *errors.ProcessError.
func (p *Process) Wait() error {
	err := p.cmd.Wait()

	if exitErr, ok := stderrors.AsType[*exec.ExitError](err); ok {
		p.setExitCode(exitErr.ExitCode())
		p.log.Info("Transport process exited with non-zero status", "exit_code", exitErr.ExitCode())

		return nil
	}

	if err != nil {
		p.log.Error("Waiting for transport process failed", "error", err)

		return &errors.ProcessError{ExitCode: -1, Err: err}
	}

	p.setExitCode(0)
	p.log.Info("Transport process exited successfully")

	return nil
}

// ExitCode returns the exit status recorded by Wait, or -1 if the process has
// not been waited for or was terminated by a signal.
func (p *Process) ExitCode() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.exitCode
}

func (p *Process) setExitCode(code int) {
	p.mu.Lock()
	p.exitCode = code
	p.mu.Unlock()
}
