package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	rshell "github.com/wagiedev/remote-shell-go"
	"github.com/wagiedev/remote-shell-go/internal/config"
)

// maxLineSize caps a single command line read from a script or stdin.
const maxLineSize = 1024 * 1024

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath    string
	transport     string
	transportArgs []string
	shell         string
	shellArgs     []string
	logLevel      string
}

type execFlags struct {
	commands  []string
	script    string
	keepGoing bool
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	global := &globalFlags{}
	flags := &execFlags{}

	root := &cobra.Command{
		Use:   "rshell [flags] <destination>",
		Short: "Send commands to a remote shell, one line at a time",
		Long: "rshell starts ssh <destination> /bin/bash --noediting and writes each command " +
			"to the remote shell's input. Commands come from --command, then --script, " +
			"or else from standard input. The shell's output is passed through unchanged.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, log, err := global.options(cmd.Context(), stderr)
			if err != nil {
				return err
			}

			return execute(cmd.Context(), log, args[0], flags, stdin,
				rshell.WithOptions(opts),
				rshell.WithStdout(stdout),
				rshell.WithStderr(stderr),
			)
		},
	}

	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	pf := root.PersistentFlags()
	pf.StringVar(&global.configPath, "config", "", "path to a TOML config file (read after ~/.rshell/config.toml and ./.rshell/config.toml)")
	pf.StringVar(&global.transport, "transport", "", "transport executable (default: ssh from PATH)")
	pf.StringArrayVar(&global.transportArgs, "transport-arg", nil, "extra transport argument placed before the destination (repeatable)")
	pf.StringVar(&global.shell, "shell", "", "remote shell to run (default /bin/bash)")
	pf.StringArrayVar(&global.shellArgs, "shell-arg", nil, "remote shell argument (repeatable, default --noediting)")
	pf.StringVar(&global.logLevel, "log-level", "", "log level: debug, info, warn or error (default warn)")

	f := root.Flags()
	f.StringArrayVarP(&flags.commands, "command", "c", nil, "command to send (repeatable)")
	f.StringVar(&flags.script, "script", "", "file with one command per line")
	f.BoolVar(&flags.keepGoing, "keep-going", false, "keep sending after a command fails to be delivered")

	root.AddCommand(newMCPCommand(global, stdin, stdout, stderr))

	return root
}

// options merges config files and flags into session options and builds the
// logger. Flags win over files.
func (g *globalFlags) options(ctx context.Context, stderr io.Writer) (*rshell.Options, *slog.Logger, error) {
	file, err := config.Load(ctx, g.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	level := file.LogLevel
	if g.logLevel != "" {
		level, err = config.ParseLogLevel(g.logLevel)
		if err != nil {
			return nil, nil, fmt.Errorf("parse --log-level: %w", err)
		}
	}

	log := rshell.NewTextLogger(stderr, level)

	opts := &rshell.Options{
		Logger:        log,
		TransportPath: g.transport,
		ShellPath:     g.shell,
	}

	if len(g.transportArgs) > 0 {
		opts.TransportArgs = g.transportArgs
	}

	if len(g.shellArgs) > 0 {
		opts.ShellArgs = g.shellArgs
	}

	file.Apply(opts)

	return opts, log, nil
}

// execute opens a session, sends every command and closes the session.
func execute(
	ctx context.Context,
	log *slog.Logger,
	destination string,
	flags *execFlags,
	stdin io.Reader,
	opts ...rshell.Option,
) error {
	s, err := rshell.Open(ctx, destination, opts...)
	if err != nil {
		return err
	}

	log = log.With("session_id", s.ID())

	var submitErr error

	index, delivered := 0, 0

	err = flags.forEachCommand(stdin, func(command string) error {
		i := index
		index++

		err := s.Submit(command)
		if err == nil {
			delivered++

			return nil
		}

		if _, ok := errors.AsType[*rshell.WriteFailure](err); ok && flags.keepGoing {
			log.Warn("Command not delivered, continuing", "index", i, "error", err)

			if submitErr == nil {
				submitErr = fmt.Errorf("command %d: %w", i, err)
			}

			return nil
		}

		return fmt.Errorf("command %d: %w", i, err)
	})
	if err != nil && submitErr == nil {
		submitErr = err
	}

	closeErr := s.Close()
	if closeErr != nil {
		closeErr = fmt.Errorf("close session: %w", closeErr)
	}

	log.Info("Session finished", "commands", index, "delivered", delivered, "exit_code", s.ExitCode())

	return errors.Join(submitErr, closeErr)
}

// forEachCommand calls fn for each --command, then for each line of
// --script. When neither is given it reads lines from stdin.
func (e *execFlags) forEachCommand(stdin io.Reader, fn func(string) error) error {
	for _, command := range e.commands {
		if err := fn(command); err != nil {
			return err
		}
	}

	if e.script != "" {
		f, err := os.Open(e.script)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()

		return forEachLine(f, fn)
	}

	if len(e.commands) == 0 {
		return forEachLine(stdin, fn)
	}

	return nil
}

func forEachLine(r io.Reader, fn func(string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}

	return nil
}
