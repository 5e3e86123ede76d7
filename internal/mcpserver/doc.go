// Package mcpserver exposes a remote shell session as Model Context Protocol
// tools.
//
// The server offers two tools: submit_command, which delivers one command to
// the shell's input and reports whether it got there, and session_info,
// which describes the session. Shell output is not captured; it goes wherever
// the session's stdout and stderr point.
package mcpserver
