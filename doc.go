// Package rshell drives an interactive remote shell through an external
// transport process such as ssh.
//
// A Session spawns the transport against a destination, running a remote
// shell with line editing disabled. Commands are submitted one at a time;
// each Submit blocks until the command and its newline have been written and
// flushed to the transport's stdin, and reports whether that succeeded. The
// shell's output goes straight to the caller's stdout and stderr (or to the
// writers given with WithStdout and WithStderr) and is never inspected.
//
// # Basic Usage
//
//	ctx := context.Background()
//	s, err := rshell.Open(ctx, "user@host1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := s.Submit("ls"); err != nil {
//	    log.Printf("ls was not delivered: %v", err)
//	}
//
//	if err := s.Close(); err != nil {
//	    log.Fatal(err)
//	}
//
// Or let WithSession handle the lifecycle:
//
//	err := rshell.WithSession(ctx, "user@host1", func(s *rshell.Session) error {
//	    return s.SubmitAll("cd /var/log", "ls -la")
//	},
//	    rshell.WithLogger(slog.Default()),
//	)
//
// # Ordering
//
// Every Session has exactly one writer goroutine that owns the transport's
// stdin. Commands reach the shell in the order Submit was called, and at
// most one command is in flight at a time.
//
// # Error Handling
//
// Submit distinguishes two failures:
//
//   - *WriteFailure: the command could not be written to the shell's input,
//     typically because the transport exited. The session stays open but is
//     probably unusable.
//   - *ChannelError: the writer is gone and no outcome will ever arrive.
//     After Close it wraps ErrSessionClosed.
//
// Open returns *LaunchError and Close returns *ProcessError.
//
// There is no timeout or cancellation once a command is submitted: a
// transport that stops reading its input blocks Submit.
package rshell
