package mcpserver

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/remote-shell-go/internal/errors"
	"github.com/wagiedev/remote-shell-go/internal/session"
)

// Tool names served by NewServer.
const (
	ToolSubmitCommand = "submit_command"
	ToolSessionInfo   = "session_info"
)

// Shell is the part of a session the tools drive.
type Shell interface {
	Submit(command string) error
	ID() string
	Destination() string
	State() session.State
}

// Compile-time verification that session.Session implements Shell.
var _ Shell = (*session.Session)(nil)

// Info is the session_info tool result.
type Info struct {
	ID          string `json:"id"`
	Destination string `json:"destination"`
	State       string `json:"state"`
}

type handlers struct {
	log   *slog.Logger
	shell Shell
}

// NewServer returns an MCP server whose tools act on shell.
func NewServer(log *slog.Logger, name, version string, shell Shell) *mcp.Server {
	h := &handlers{
		log:   log.With("component", "mcpserver"),
		shell: shell,
	}

	server := mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil)

	server.AddTool(
		NewTool(
			ToolSubmitCommand,
			"Send one command line to the remote shell. Reports whether the command "+
				"was written to the shell's input; the command's output is not returned.",
			StringSchema("command"),
		),
		h.submitCommand,
	)

	server.AddTool(
		NewTool(
			ToolSessionInfo,
			"Describe the remote shell session: its id, destination and state.",
			&jsonschema.Schema{Type: "object"},
		),
		h.sessionInfo,
	)

	return server
}

func (h *handlers) submitCommand(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := ParseArguments(req)
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	command, ok := args["command"].(string)
	if !ok {
		return ErrorResult("command must be a string"), nil
	}

	h.log.Debug("Tool submitting command", "command_len", len(command))

	if err := h.shell.Submit(command); err != nil {
		if _, isChannel := stderrors.AsType[*errors.ChannelError](err); isChannel {
			return ErrorResult("session is no longer accepting commands: " + err.Error()), nil
		}

		return ErrorResult("command was not delivered: " + err.Error()), nil
	}

	return TextResult("delivered"), nil
}

func (h *handlers) sessionInfo(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(Info{
		ID:          h.shell.ID(),
		Destination: h.shell.Destination(),
		State:       h.shell.State().String(),
	})
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	return TextResult(string(data)), nil
}
