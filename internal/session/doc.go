// Package session implements the synchronous facade over a remote shell.
//
// A Session owns the transport process and the send side of a command
// channel. A single writer goroutine owns the process's stdin and the
// receive side of that channel. Submit hands a command to the writer and
// blocks until the writer reports whether the command reached the shell's
// input. Both channels hold at most one item, so at most one command is ever
// in flight.
//
// Close tears the session down in a fixed order: close the command channel
// (the writer then closes stdin), wait for the process to exit, then join
// the writer.
package session
