// Package writer serializes command delivery to a shell's input stream.
//
// A Writer owns the stream exclusively. Commands arrive on a channel, are
// written one at a time followed by a newline and a flush, and exactly one
// outcome per command is sent back on a result channel in the order the
// commands were received. Closing the command channel is the only shutdown
// signal: the Writer then closes the stream and its result channel and
// returns.
package writer
