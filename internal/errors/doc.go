// Package errors defines error types for remote shell sessions.
//
// Every failure a session can report maps to one of the types here, so
// callers can tell a failed launch, a failed write to the shell's input, a
// dead writer goroutine and a failed process wait apart. All error types
// support unwrapping and can be checked using errors.Is, errors.As, and
// errors.AsType.
package errors
