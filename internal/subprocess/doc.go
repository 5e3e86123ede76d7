// Package subprocess spawns the transport process that carries a remote shell.
//
// The process's stdin is captured for writing; stdout and stderr are handed
// straight to the configured writers (the caller's own streams by default),
// so shell output is never read, parsed or buffered here.
package subprocess
