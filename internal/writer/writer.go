package writer

import (
	"bufio"
	"io"
	"log/slog"

	"github.com/wagiedev/remote-shell-go/internal/errors"
)

// terminator ends every command written to the shell.
const terminator = '\n'

// Command is a pending command waiting to be written to the shell.
type Command struct {
	Text string
}

// Writer delivers commands to a shell's input stream.
type Writer struct {
	log    *slog.Logger
	stream io.WriteCloser
	buf    *bufio.Writer
}

// New creates a Writer that takes ownership of stream. No other code may write
// to or close stream once it has been handed over.
func New(log *slog.Logger, stream io.WriteCloser) *Writer {
	return &Writer{
		log:    log.With("component", "writer"),
		stream: stream,
		buf:    bufio.NewWriter(stream),
	}
}

// Run processes commands until the commands channel is closed.
//
// For each command it sends exactly one outcome on results: nil when the
// text, the terminator and the flush all succeeded, or a *errors.WriteFailure
// naming the first step that failed. A failure does not stop the loop.
//
// When commands is closed Run closes the stream, so the remote shell sees
// end of input, closes results and returns nil.
func (w *Writer) Run(commands <-chan Command, results chan<- error) error {
	defer close(results)
	defer w.closeStream()

	w.log.Debug("Writer started")

	delivered := 0

	for cmd := range commands {
		err := w.deliver(cmd)
		if err != nil {
			w.log.Debug("Command delivery failed", "error", err)
			// Drop whatever is left of the failed command so it is never
			// written ahead of a later one.
			w.buf.Reset(w.stream)
		} else {
			delivered++
		}

		results <- err
	}

	w.log.Debug("Command channel closed, writer stopping", "delivered", delivered)

	return nil
}

// deliver writes one command, its terminator and flushes, stopping at the
// first step that fails.
func (w *Writer) deliver(cmd Command) error {
	if _, err := w.buf.WriteString(cmd.Text); err != nil {
		return &errors.WriteFailure{Step: errors.StepWrite, Err: err}
	}

	if err := w.buf.WriteByte(terminator); err != nil {
		return &errors.WriteFailure{Step: errors.StepTerminator, Err: err}
	}

	if err := w.buf.Flush(); err != nil {
		return &errors.WriteFailure{Step: errors.StepFlush, Err: err}
	}

	return nil
}

func (w *Writer) closeStream() {
	if err := w.stream.Close(); err != nil {
		w.log.Debug("Closing shell input failed", "error", err)
	}
}
