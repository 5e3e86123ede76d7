package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	rshell "github.com/wagiedev/remote-shell-go"
	"github.com/wagiedev/remote-shell-go/internal/mcpserver"
)

const mcpServerName = "rshell"

func newMCPCommand(global *globalFlags, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp [flags] <destination>",
		Short: "Serve a remote shell session as MCP tools over stdio",
		Long: "mcp opens one session to <destination> and serves the submit_command and " +
			"session_info tools on standard input and output. The shell's output goes to " +
			"standard error because standard output carries the protocol.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			opts, log, err := global.options(ctx, stderr)
			if err != nil {
				return err
			}

			s, err := rshell.Open(ctx, args[0],
				rshell.WithOptions(opts),
				rshell.WithStdout(stderr),
				rshell.WithStderr(stderr),
			)
			if err != nil {
				return err
			}

			log = log.With("session_id", s.ID())
			log.Info("Serving MCP", "destination", s.Destination())

			server := mcpserver.NewServer(log, mcpServerName, Version, s)
			transport := &mcp.IOTransport{
				Reader: io.NopCloser(stdin),
				Writer: nopWriteCloser{stdout},
			}

			runErr := server.Run(ctx, transport)
			// A client hanging up or an interrupt ends the server normally.
			if errors.Is(runErr, io.EOF) || (ctx.Err() != nil && errors.Is(runErr, ctx.Err())) {
				runErr = nil
			}

			closeErr := s.Close()
			if closeErr != nil {
				closeErr = fmt.Errorf("close session: %w", closeErr)
			}

			if runErr != nil {
				runErr = fmt.Errorf("serve mcp: %w", runErr)
			}

			return errors.Join(runErr, closeErr)
		},
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
